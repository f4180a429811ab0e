package client

import (
	"context"
)

// FetchWallet returns the current balance.
func (c *Client) FetchWallet(ctx context.Context) (*Wallet, error) {
	var wallet Wallet
	if err := c.get(ctx, "/wallet", &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Deposit tops up the wallet and returns the confirmed balance.
func (c *Client) Deposit(ctx context.Context, amount float64) (*Wallet, error) {
	var wallet Wallet
	err := c.post(ctx, "/wallet/deposit", map[string]float64{"amount": amount}, &wallet)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// FetchTransactions replaces the transactions collection, newest first.
func (c *Client) FetchTransactions(ctx context.Context) ([]Transaction, error) {
	var resp struct {
		Transactions []Transaction `json:"transactions"`
	}
	if err := c.get(ctx, "/wallet/transactions", &resp); err != nil {
		c.Transactions.fail(err)
		return nil, err
	}
	c.Transactions.replaceAll(resp.Transactions)
	return resp.Transactions, nil
}
