// Package console implements the user-facing ledger actions on top of the
// request dispatcher. Each action validates its input locally, builds the
// request and hands it to the dispatcher, which renders the outcome on the
// shared display.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ipfs/go-log"

	"github.com/keep-network/ledger-console/pkg/dispatch"
	"github.com/keep-network/ledger-console/pkg/display"
)

var logger = log.Logger("console")

// Ledger API endpoints.
const (
	AddTransactionEndpoint = "/add_transaction"
	ConnectNodeEndpoint    = "/connect_node"
	SearchEndpoint         = "/search"
	ChainEndpoint          = "/get_chain"
	MineEndpoint           = "/mine_block"
	ValidateEndpoint       = "/is_valid"
	ConsensusEndpoint      = "/consensus"
	NetworkChainEndpoint   = "/network/chain"
)

// Messages shown when input is rejected before a request is sent.
const (
	EmptyPayloadMessage     = "Erro: O campo de payload JSON não pode estar vazio."
	InvalidPayloadMessage   = "Erro: JSON inválido. Verifique a sintaxe.\n\nDetalhes: "
	EmptyNodeAddressMessage = "Erro: O endereço do nó não pode estar vazio."
	EmptySearchTermMessage  = "Erro: O campo \"Termo de Busca\" é obrigatório."
)

// Dispatcher sends requests and reports their lifecycle to a renderer.
type Dispatcher interface {
	Dispatch(
		ctx context.Context,
		request dispatch.Request,
		renderer dispatch.Renderer,
	) <-chan dispatch.Outcome
}

// Display is the output region actions render to.
type Display interface {
	dispatch.Renderer
	Reject(outcome dispatch.Outcome)
}

// Console binds the ledger actions to a dispatcher and a display.
type Console struct {
	dispatcher Dispatcher
	display    Display
}

// New creates a console.
func New(dispatcher Dispatcher, display Display) *Console {
	return &Console{
		dispatcher: dispatcher,
		display:    display,
	}
}

type transactionBatch struct {
	Transactions []json.RawMessage `json:"transactions"`
}

type nodeList struct {
	Nodes []string `json:"nodes"`
}

// AddTransaction parses the payload field as a JSON document and submits it
// as a single-element transaction batch.
func (c *Console) AddTransaction(
	ctx context.Context,
	payload *display.Field,
) <-chan dispatch.Outcome {
	input := payload.Value()
	if strings.TrimSpace(input) == "" {
		return c.reject(EmptyPayloadMessage)
	}

	var transaction json.RawMessage
	if err := json.Unmarshal([]byte(input), &transaction); err != nil {
		logger.Warningf("rejecting transaction payload: [%v]", err)
		return c.reject(InvalidPayloadMessage + err.Error())
	}

	return c.dispatcher.Dispatch(
		ctx,
		dispatch.Request{
			Endpoint: AddTransactionEndpoint,
			Method:   http.MethodPost,
			Body: transactionBatch{
				Transactions: []json.RawMessage{transaction},
			},
		},
		c.display,
	)
}

// ConnectNode registers the node address held by the field with the ledger.
// The field is cleared once the request has been issued and left untouched
// when the address is rejected.
func (c *Console) ConnectNode(
	ctx context.Context,
	address *display.Field,
) <-chan dispatch.Outcome {
	nodeAddress := strings.TrimSpace(address.Value())
	if nodeAddress == "" {
		return c.reject(EmptyNodeAddressMessage)
	}

	done := c.dispatcher.Dispatch(
		ctx,
		dispatch.Request{
			Endpoint: ConnectNodeEndpoint,
			Method:   http.MethodPost,
			Body:     nodeList{Nodes: []string{nodeAddress}},
		},
		c.display,
	)
	address.Clear()

	return done
}

// Search looks up the term held by the field across all ledger transactions.
func (c *Console) Search(
	ctx context.Context,
	term *display.Field,
) <-chan dispatch.Outcome {
	searchTerm := strings.TrimSpace(term.Value())
	if searchTerm == "" {
		return c.reject(EmptySearchTermMessage)
	}

	return c.query(ctx, SearchQuery(searchTerm))
}

// Chain fetches the full chain of the connected node.
func (c *Console) Chain(ctx context.Context) <-chan dispatch.Outcome {
	return c.query(ctx, ChainEndpoint)
}

// Mine asks the connected node to mine a block.
func (c *Console) Mine(ctx context.Context) <-chan dispatch.Outcome {
	return c.query(ctx, MineEndpoint)
}

// Validate asks the connected node whether its chain is valid.
func (c *Console) Validate(ctx context.Context) <-chan dispatch.Outcome {
	return c.query(ctx, ValidateEndpoint)
}

// Consensus asks the connected node to replace its chain with the longest
// valid chain among its peers.
func (c *Console) Consensus(ctx context.Context) <-chan dispatch.Outcome {
	return c.query(ctx, ConsensusEndpoint)
}

// NetworkChain fetches the authoritative chain as seen across the network.
func (c *Console) NetworkChain(ctx context.Context) <-chan dispatch.Outcome {
	return c.query(ctx, NetworkChainEndpoint)
}

// SearchQuery builds the search endpoint for the term. The term is
// percent-encoded; spaces become %20.
func SearchQuery(term string) string {
	return fmt.Sprintf(
		"%s?q=%s",
		SearchEndpoint,
		strings.ReplaceAll(url.QueryEscape(term), "+", "%20"),
	)
}

func (c *Console) query(ctx context.Context, endpoint string) <-chan dispatch.Outcome {
	return c.dispatcher.Dispatch(
		ctx,
		dispatch.Request{Endpoint: endpoint, Method: http.MethodGet},
		c.display,
	)
}

func (c *Console) reject(message string) <-chan dispatch.Outcome {
	outcome := dispatch.Rejected(message)
	c.display.Reject(outcome)

	done := make(chan dispatch.Outcome, 1)
	done <- outcome
	close(done)

	return done
}
