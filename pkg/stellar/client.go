package stellar

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"
	"github.com/ticketfolio/ticketfolio-backend/pkg/config"
	pkgerrors "github.com/ticketfolio/ticketfolio-backend/pkg/errors"
)

// Holding is one non-native asset balance observed on the ledger.
type Holding struct {
	AssetCode string `json:"asset_code"`
	Issuer    string `json:"issuer"`
	Balance   string `json:"balance"`
}

// TransferResult carries the hash of a submitted asset transfer.
type TransferResult struct {
	TransactionHash string `json:"transaction_hash"`
}

type horizonAPI interface {
	AccountDetail(request horizonclient.AccountRequest) (horizon.Account, error)
	SubmitTransaction(tx *txnbuild.Transaction) (horizon.Transaction, error)
}

// Client wraps the Horizon surface the ticket services need: a holdings
// read, an asset-transfer write and an explorer link pass-through.
type Client struct {
	api             horizonAPI
	networkPass     string
	explorerBaseURL string
	baseFee         int64
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// New builds a Horizon-backed client from the Stellar configuration.
func New(cfg config.StellarConfig) *Client {
	pass := cfg.NetworkPassphrase
	if pass == "" {
		pass = network.TestNetworkPassphrase
	}
	api := &horizonclient.Client{
		HorizonURL: cfg.HorizonURL,
		HTTP:       &http.Client{Timeout: cfg.RequestTimeout},
	}
	return &Client{
		api:             api,
		networkPass:     pass,
		explorerBaseURL: strings.TrimRight(cfg.ExplorerBaseURL, "/"),
		baseFee:         cfg.BaseFee,
	}
}

// Holdings returns every non-native asset balance held by the account.
// The ctx deadline is enforced by the underlying HTTP client timeout.
func (c *Client) Holdings(ctx context.Context, account string) ([]Holding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(account) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account is required")
	}

	detail, err := c.api.AccountDetail(horizonclient.AccountRequest{AccountID: account})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, "fetch account holdings")
	}

	holdings := make([]Holding, 0, len(detail.Balances))
	for _, balance := range detail.Balances {
		if balance.Asset.Type == "native" {
			continue
		}
		holdings = append(holdings, Holding{
			AssetCode: balance.Asset.Code,
			Issuer:    balance.Asset.Issuer,
			Balance:   balance.Balance,
		})
	}
	return holdings, nil
}

// SubmitAssetTransfer pays `amount` of the custom asset from the issuer to
// the recipient. The recipient must already trust the asset; trustline
// management is outside this client.
func (c *Client) SubmitAssetTransfer(ctx context.Context, issuerSeed, recipient, assetCode, amount string) (TransferResult, error) {
	if err := ctx.Err(); err != nil {
		return TransferResult{}, err
	}
	issuerPair, err := keypair.ParseFull(issuerSeed)
	if err != nil {
		return TransferResult{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid issuer seed")
	}

	source, err := c.api.AccountDetail(horizonclient.AccountRequest{AccountID: issuerPair.Address()})
	if err != nil {
		return TransferResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load issuer account")
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &source,
		IncrementSequenceNum: true,
		BaseFee:              c.baseFee,
		Preconditions:        txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(300)},
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: recipient,
				Amount:      amount,
				Asset:       txnbuild.CreditAsset{Code: assetCode, Issuer: issuerPair.Address()},
			},
		},
	})
	if err != nil {
		return TransferResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build transfer transaction")
	}

	signed, err := tx.Sign(c.networkPass, issuerPair)
	if err != nil {
		return TransferResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign transfer transaction")
	}

	resp, err := c.api.SubmitTransaction(signed)
	if err != nil {
		return TransferResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit transfer transaction")
	}
	return TransferResult{TransactionHash: resp.Hash}, nil
}

// ExplorerLink builds a display URL for a transaction or account hash.
// Pass-through only, no business logic.
func (c *Client) ExplorerLink(hash, kind string) string {
	if kind == "" {
		kind = "tx"
	}
	return fmt.Sprintf("%s/%s/%s", c.explorerBaseURL, kind, hash)
}

// Ping verifies Horizon is reachable by requesting the root account of the
// network's friendbot-less base; a failed AccountDetail with a parsed
// problem still proves connectivity, so only transport errors count.
func (c *Client) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.api.AccountDetail(horizonclient.AccountRequest{AccountID: pingAccount})
	if err == nil {
		return nil
	}
	if horizonErr := horizonclient.GetError(err); horizonErr != nil {
		return nil
	}
	return err
}

// pingAccount is a syntactically valid address that Horizon will answer for
// (with a 404 problem at worst), which is enough for a readiness probe.
const pingAccount = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF5"

// FormatAddress shortens a Stellar account id for display: GABC…WXYZ.
func FormatAddress(account string) string {
	if len(account) <= 8 {
		return account
	}
	return account[:4] + "…" + account[len(account)-4:]
}
