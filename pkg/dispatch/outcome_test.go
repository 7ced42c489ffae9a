package dispatch

import (
	"testing"
)

func TestPretty(t *testing.T) {
	testData := map[string]struct {
		payload      string
		expectedText string
	}{
		"escaped non-ascii characters": {
			`{"message": "A blockchain \u00e9 v\u00e1lida."}`,
			"{\n    \"message\": \"A blockchain é válida.\"\n}",
		},
		"escaped html characters": {
			`{"search_term":"a\u0026b \u003cx\u003e"}`,
			"{\n    \"search_term\": \"a&b <x>\"\n}",
		},
		"escapes required by json are kept": {
			`{"quote":"say \"hi\"\n","path":"a\\b"}`,
			"{\n    \"quote\": \"say \\\"hi\\\"\\n\",\n    \"path\": \"a\\\\b\"\n}",
		},
		"key order and number literals": {
			`{"z":1.50,"a":[true,null,-2e3],"m":{}}`,
			"{\n    \"z\": 1.50,\n    \"a\": [\n        true,\n        null,\n        -2e3\n    ],\n    \"m\": {}\n}",
		},
		"escaped keys": {
			`{"na\u00e7\u00e3o":[]}`,
			"{\n    \"nação\": []\n}",
		},
		"scalar": {
			`"Erro \u00e9"`,
			`"Erro é"`,
		},
		"invalid json": {
			`<html>`,
			`<html>`,
		},
	}

	for testName, testData := range testData {
		t.Run(testName, func(t *testing.T) {
			text := Pretty([]byte(testData.payload))
			if text != testData.expectedText {
				t.Errorf(
					"unexpected text\nexpected: %s\nactual:   %s",
					testData.expectedText,
					text,
				)
			}
		})
	}
}

func TestOutcomeText_DecodesEscapes(t *testing.T) {
	outcome := Outcome{
		Kind:    BackendFailure,
		Status:  404,
		Payload: []byte(`{"message":"Nenhuma transa\u00e7\u00e3o","search_term":"a\u0026b"}`),
	}

	expectedText := `Erro 404: {
    "message": "Nenhuma transação",
    "search_term": "a&b"
}`
	if outcome.Text() != expectedText {
		t.Errorf(
			"unexpected text\nexpected: %s\nactual:   %s",
			expectedText,
			outcome.Text(),
		)
	}
}
