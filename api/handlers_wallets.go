package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/status-im/wallet-aggregator/aggregator"
	"github.com/status-im/wallet-aggregator/interfaces"
	"github.com/status-im/wallet-aggregator/portfolio"
)

const maxRequestBody = 1 << 20

// balancesRequest is the POST body of /api/v1/wallets/balances
type balancesRequest struct {
	Fiat       string                     `json:"fiat"`
	Concurrent *bool                      `json:"concurrent"`
	Verbose    bool                       `json:"verbose"`
	Extra      map[string]any             `json:"extra"`
	Wallets    []aggregator.WalletRequest `json:"wallets"`
}

// handleWalletBalances aggregates the wallets of a POST body, or of the
// "wallets=btc:addr,eth:addr" query of a GET
func (s *Server) handleWalletBalances(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseBalancesRequest(w, r)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	wallets, err := portfolio.NormalizeWallets(req.Wallets)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	fiat := strings.ToLower(strings.TrimSpace(req.Fiat))
	if fiat == "" {
		fiat = s.defaults.Fiat
	}
	opts := interfaces.Options{
		Concurrent: s.defaults.Concurrent,
		Verbose:    req.Verbose || s.defaults.Verbose,
		Extra:      req.Extra,
	}
	if req.Concurrent != nil {
		opts.Concurrent = *req.Concurrent
	}

	ctx := r.Context()
	if s.defaults.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.defaults.Timeout)
		defer cancel()
	}

	records, err := s.aggregator.Aggregate(ctx, wallets, fiat, opts)
	if err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			s.log().Warn("Aggregation failed", zap.Int("wallets", len(wallets)), zap.Error(err))
		}
		s.sendError(w, status, err.Error())
		return
	}

	s.sendJSONResponse(w, r, records)
}

func (s *Server) parseBalancesRequest(w http.ResponseWriter, r *http.Request) (balancesRequest, error) {
	var req balancesRequest

	if r.Method == http.MethodGet {
		wallets, err := portfolio.ParseWalletArgs(splitParam(r.URL.Query().Get("wallets")))
		if err != nil {
			return req, err
		}
		req.Wallets = wallets
		req.Fiat = getParamLowercase(r, "fiat")
		req.Verbose = getParamBool(r, "verbose", false)
		if r.URL.Query().Has("concurrent") {
			concurrent := getParamBool(r, "concurrent", s.defaults.Concurrent)
			req.Concurrent = &concurrent
		}
		if source := getParamLowercase(r, "source"); source != "" {
			req.Extra = map[string]any{"source": source}
		}
		return req, nil
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return req, errors.New("invalid request body: " + err.Error())
	}
	return req, nil
}

// statusForError maps lookup failures onto HTTP statuses. A chain of price
// providers reports every provider's failure, so upstream trouble is checked
// before input errors: 422 only when no provider failed for a retryable reason.
func statusForError(err error) int {
	switch {
	case errors.Is(err, aggregator.ErrNoWallets),
		errors.Is(err, portfolio.ErrInvalidWallet):
		return http.StatusBadRequest
	case errors.Is(err, interfaces.ErrUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, interfaces.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, interfaces.ErrUnsupportedCurrency),
		errors.Is(err, interfaces.ErrUnsupportedFiat),
		errors.Is(err, interfaces.ErrInvalidAddress):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
