package state

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/gossip"
)

// Transport represents the behavior required to call the endpoints a peer
// exposes to other nodes.
type Transport interface {
	SendEvent(ctx context.Context, host string, env gossip.Envelope) error
	AddPeer(ctx context.Context, host string, self string) ([]string, error)
	QueryChain(ctx context.Context, host string) (ChainResponse, error)
}

// ChainResponse is the document a node returns for its chain.
type ChainResponse struct {
	Chain         []database.Block `json:"chain"`
	Length        int              `json:"length"`
	LastBlockHash string           `json:"lastblock_hash"`
}

// NewChainResponse constructs the chain document for the specified chain.
func NewChainResponse(chain []database.Block) ChainResponse {
	var lastHash string
	if len(chain) > 0 {
		lastHash = chain[len(chain)-1].Hash()
	}

	return ChainResponse{
		Chain:         chain,
		Length:        len(chain),
		LastBlockHash: lastHash,
	}
}

// AddPeerRequest is the document sent to register a node with a peer.
type AddPeerRequest struct {
	Node string `json:"node" validate:"required"`
}

// AddPeerResponse is the document returned with the peer's known nodes.
type AddPeerResponse struct {
	Nodes []string `json:"nodes"`
}

// =============================================================================

// HTTPTransport calls peers over http on their private endpoints. This
// implements the Transport interface.
type HTTPTransport struct {
	client  *http.Client
	baseURL string
}

// NewHTTPTransport constructs a transport for calling peers. The timeout
// of each call is controlled by the context passed to it.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		client:  &http.Client{},
		baseURL: "http://%s",
	}
}

// SendEvent posts the envelope to the peer's event endpoint.
func (t *HTTPTransport) SendEvent(ctx context.Context, host string, env gossip.Envelope) error {
	url := fmt.Sprintf("%s/broadcast/event", fmt.Sprintf(t.baseURL, host))
	return send(ctx, t.client, http.MethodPost, url, env, nil)
}

// AddPeer registers self with the peer and returns the peer's known nodes.
func (t *HTTPTransport) AddPeer(ctx context.Context, host string, self string) ([]string, error) {
	url := fmt.Sprintf("%s/nodes/add", fmt.Sprintf(t.baseURL, host))

	var resp AddPeerResponse
	if err := send(ctx, t.client, http.MethodPost, url, AddPeerRequest{Node: self}, &resp); err != nil {
		return nil, err
	}

	return resp.Nodes, nil
}

// QueryChain retrieves the peer's full chain.
func (t *HTTPTransport) QueryChain(ctx context.Context, host string) (ChainResponse, error) {
	url := fmt.Sprintf("%s/chain", fmt.Sprintf(t.baseURL, host))

	var resp ChainResponse
	if err := send(ctx, t.client, http.MethodGet, url, nil, &resp); err != nil {
		return ChainResponse{}, err
	}

	return resp, nil
}

// =============================================================================

// send is a helper function to send an HTTP request to a node.
func send(ctx context.Context, client *http.Client, method string, url string, dataSend any, dataRecv any) error {
	var body io.Reader

	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if dataSend != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return fmt.Errorf("status[%d]: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return err
		}
	}

	return nil
}
