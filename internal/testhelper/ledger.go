package testhelper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/julienschmidt/httprouter"
)

// RecordedRequest is a request received by the fake ledger.
type RecordedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	ContentType string
	Body        []byte
}

type block struct {
	Index        int               `json:"index"`
	Timestamp    string            `json:"timestamp"`
	Proof        int               `json:"proof"`
	PreviousHash string            `json:"previous_hash"`
	Transactions []json.RawMessage `json:"transactions"`
}

type cannedResponse struct {
	status int
	body   string
}

// FakeLedger is an in-process ledger API used in tests. It records every
// request and answers the routes the console calls.
type FakeLedger struct {
	server *httptest.Server

	mutex    sync.Mutex
	requests []RecordedRequest
	chain    []block
	pending  []json.RawMessage
	nodes    []string
	canned   *cannedResponse
}

// NewFakeLedger starts a fake ledger holding only the genesis block.
func NewFakeLedger() *FakeLedger {
	ledger := &FakeLedger{
		chain: []block{{
			Index:        1,
			Timestamp:    "2020-01-01 00:00:00",
			Proof:        1,
			PreviousHash: "0",
			Transactions: []json.RawMessage{},
		}},
	}

	router := httprouter.New()
	router.POST("/add_transaction", ledger.addTransaction)
	router.POST("/connect_node", ledger.connectNode)
	router.GET("/search", ledger.search)
	router.GET("/get_chain", ledger.getChain)
	router.GET("/mine_block", ledger.mineBlock)
	router.GET("/is_valid", ledger.isValid)
	router.GET("/consensus", ledger.consensus)
	router.GET("/network/chain", ledger.networkChain)

	ledger.server = httptest.NewServer(ledger.record(router))

	return ledger
}

// URL returns the base URL of the fake ledger.
func (fl *FakeLedger) URL() string {
	return fl.server.URL
}

// Close shuts the fake ledger down.
func (fl *FakeLedger) Close() {
	fl.server.Close()
}

// Requests returns all requests received so far.
func (fl *FakeLedger) Requests() []RecordedRequest {
	fl.mutex.Lock()
	defer fl.mutex.Unlock()

	return append([]RecordedRequest{}, fl.requests...)
}

// RespondWith makes every following request answer with the given status and
// raw body instead of the route's regular response.
func (fl *FakeLedger) RespondWith(status int, body string) {
	fl.mutex.Lock()
	defer fl.mutex.Unlock()

	fl.canned = &cannedResponse{status, body}
}

func (fl *FakeLedger) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		fl.mutex.Lock()
		fl.requests = append(fl.requests, RecordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		canned := fl.canned
		fl.mutex.Unlock()

		if canned != nil {
			w.WriteHeader(canned.status)
			io.WriteString(w, canned.body)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (fl *FakeLedger) addTransaction(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	request := struct {
		Transactions []json.RawMessage `json:"transactions"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil ||
		len(request.Transactions) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Requisição inválida. O campo \"transactions\" é obrigatório e deve ser uma lista não vazia.",
		})
		return
	}

	fl.mutex.Lock()
	fl.pending = append(fl.pending, request.Transactions...)
	nextIndex := len(fl.chain) + 1
	fl.mutex.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf(
			"%d transações foram validadas, filtradas e serão adicionadas ao Bloco %d",
			len(request.Transactions),
			nextIndex,
		),
	})
}

func (fl *FakeLedger) connectNode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	request := struct {
		Nodes []string `json:"nodes"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Nodes == nil {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, "Erro: Forneça uma lista de nós válida no corpo da requisição.")
		return
	}

	fl.mutex.Lock()
	fl.nodes = append(fl.nodes, request.Nodes...)
	nodes := append([]string{}, fl.nodes...)
	fl.mutex.Unlock()

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Todos os nós foram conectados. A blockchain agora contém os seguintes nós:",
		"total_nodes": nodes,
	})
}

func (fl *FakeLedger) search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Parâmetro de busca \"q\" é obrigatório.",
		})
		return
	}

	type result struct {
		BlockIndex  int             `json:"block_index"`
		Transaction json.RawMessage `json:"transaction"`
	}
	results := []result{}

	fl.mutex.Lock()
	for _, b := range fl.chain {
		for _, transaction := range b.Transactions {
			var decoded interface{}
			if err := json.Unmarshal(transaction, &decoded); err != nil {
				continue
			}
			if contains(decoded, term) {
				results = append(results, result{b.Index, transaction})
			}
		}
	}
	fl.mutex.Unlock()

	if len(results) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"message":     "Nenhuma transação encontrada contendo o termo fornecido.",
			"search_term": term,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("%d transação(ões) encontrada(s).", len(results)),
		"results": results,
	})
}

func (fl *FakeLedger) getChain(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	fl.mutex.Lock()
	defer fl.mutex.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chain":  fl.chain,
		"length": len(fl.chain),
	})
}

func (fl *FakeLedger) mineBlock(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	fl.mutex.Lock()
	previous := fl.chain[len(fl.chain)-1]
	mined := block{
		Index:        previous.Index + 1,
		Timestamp:    "2020-01-01 00:00:00",
		Proof:        previous.Proof + 1,
		PreviousHash: fmt.Sprintf("hash-%d", previous.Index),
		Transactions: append([]json.RawMessage{}, fl.pending...),
	}
	fl.chain = append(fl.chain, mined)
	fl.pending = nil
	fl.mutex.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Parabéns, você minerou um bloco!",
		"block":   mined,
	})
}

func (fl *FakeLedger) isValid(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "A blockchain é válida.",
	})
}

func (fl *FakeLedger) consensus(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	fl.mutex.Lock()
	defer fl.mutex.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "A cadeia atual já é a autoritativa.",
		"current_chain": fl.chain,
	})
}

func (fl *FakeLedger) networkChain(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	fl.mutex.Lock()
	defer fl.mutex.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "A cadeia local já é a autoritativa.",
		"chain":   fl.chain,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// contains looks for a value equal to the term, ignoring case, anywhere in a
// decoded JSON document.
func contains(document interface{}, term string) bool {
	switch value := document.(type) {
	case map[string]interface{}:
		for _, nested := range value {
			if contains(nested, term) {
				return true
			}
		}
	case []interface{}:
		for _, nested := range value {
			if contains(nested, term) {
				return true
			}
		}
	default:
		return strings.EqualFold(fmt.Sprint(value), term)
	}

	return false
}
