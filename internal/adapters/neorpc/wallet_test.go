package neorpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/givechain/givechain-ui-api/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestWallet points a wallet at a fake node whose validateaddress answer
// is controlled by the valid map.
func newTestWallet(t *testing.T, valid map[string]bool) *Wallet {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "validateaddress", req.Method)
		require.Len(t, req.Params, 1)

		addr, _ := req.Params[0].(string)
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":{"address":%q,"isvalid":%t}}`,
			addr, valid[addr])
	}))
	t.Cleanup(srv.Close)

	wallet, err := NewWallet(Config{RPCURL: srv.URL})
	require.NoError(t, err)
	return wallet
}

func TestConnectValidAddressFiresHandlers(t *testing.T) {
	wallet := newTestWallet(t, map[string]bool{"NValidAddr": true})

	var got []string
	cancel := wallet.OnConnect(func(addr string) { got = append(got, addr) })
	defer cancel()

	addr, err := wallet.Connect(context.Background(), "NValidAddr")
	require.NoError(t, err)
	assert.Equal(t, "NValidAddr", addr)
	assert.Equal(t, []string{"NValidAddr"}, got)
	assert.Equal(t, "NValidAddr", wallet.Current())
}

func TestConnectInvalidAddressFails(t *testing.T) {
	wallet := newTestWallet(t, map[string]bool{})

	fired := false
	cancel := wallet.OnConnect(func(string) { fired = true })
	defer cancel()

	_, err := wallet.Connect(context.Background(), "bogus")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
	assert.False(t, fired)
	assert.Empty(t, wallet.Current())
}

func TestConnectEmptyAddressFailsWithoutNodeCall(t *testing.T) {
	wallet, err := NewWallet(Config{RPCURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = wallet.Connect(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
}

func TestConnectUnreachableNodeReportsCollaboratorUnavailable(t *testing.T) {
	wallet, err := NewWallet(Config{RPCURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = wallet.Connect(context.Background(), "NValidAddr")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeCollaboratorUnavailable, apperrors.GetCode(err))
}

func TestDisconnectFiresHandlersAndClearsCurrent(t *testing.T) {
	wallet := newTestWallet(t, map[string]bool{"NValidAddr": true})

	_, err := wallet.Connect(context.Background(), "NValidAddr")
	require.NoError(t, err)

	fired := 0
	cancel := wallet.OnDisconnect(func() { fired++ })
	defer cancel()

	require.NoError(t, wallet.Disconnect(context.Background()))
	assert.Equal(t, 1, fired)
	assert.Empty(t, wallet.Current())
}

func TestCancelRemovesHandler(t *testing.T) {
	wallet := newTestWallet(t, map[string]bool{"NValidAddr": true})

	fired := 0
	cancel := wallet.OnConnect(func(string) { fired++ })
	cancel()

	_, err := wallet.Connect(context.Background(), "NValidAddr")
	require.NoError(t, err)
	assert.Zero(t, fired)
}

func TestRPCErrorIsPropagated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`)
	}))
	t.Cleanup(srv.Close)

	wallet, err := NewWallet(Config{RPCURL: srv.URL})
	require.NoError(t, err)

	_, err = wallet.Connect(context.Background(), "NValidAddr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method not found")
}

func TestNewWalletRequiresRPCURL(t *testing.T) {
	_, err := NewWallet(Config{})
	require.Error(t, err)
}
