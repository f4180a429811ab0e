package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yoldas-app/yoldas-backend/internal/services"
)

// GetWallet returns the current user's wallet balance
func GetWallet(wallets *services.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		wallet, err := wallets.Balance(c.Request.Context(), userId)
		if err != nil {
			serviceError(c, err)
			return
		}

		c.JSON(200, wallet)
	}
}

// Deposit credits the current user's wallet
func Deposit(wallets *services.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Amount float64 `json:"amount" binding:"required,gt=0"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		wallet, err := wallets.Deposit(c.Request.Context(), userId, input.Amount)
		if err != nil {
			serviceError(c, err)
			return
		}

		c.JSON(200, wallet)
	}
}

// GetTransactions lists the wallet ledger, newest first
func GetTransactions(wallets *services.WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		transactions, err := wallets.Transactions(c.Request.Context(), userId)
		if err != nil {
			serviceError(c, err)
			return
		}

		c.JSON(200, gin.H{"transactions": transactions})
	}
}
