package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yoldas-app/yoldas-backend/internal/models"
)

// GetSettings lists the current user's settings
func GetSettings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var settings []models.Setting
		if err := db.Where("user_id = ?", userId).
			Order("key ASC").
			Find(&settings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch settings"})
			return
		}

		c.JSON(200, gin.H{"settings": settings})
	}
}

// GetSetting returns one setting, falling back to the global default
func GetSetting(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		key := c.Param("key")

		var setting models.Setting
		err := db.Where("user_id = ? AND key = ?", userId, key).First(&setting).Error
		if err != nil {
			err = db.Where("user_id = 0 AND key = ?", key).First(&setting).Error
		}
		if err != nil {
			c.JSON(404, gin.H{"error": "Setting not found"})
			return
		}

		c.JSON(200, setting)
	}
}

// UpsertSetting creates or replaces a setting for the current user
func UpsertSetting(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Key   string `json:"key" binding:"required"`
			Value string `json:"value" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		setting := models.Setting{
			UserID: userId,
			Key:    input.Key,
			Value:  input.Value,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&setting).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save setting"})
			return
		}

		c.JSON(200, setting)
	}
}

// DeleteSetting removes a setting for the current user
func DeleteSetting(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		key := c.Param("key")

		result := db.Where("user_id = ? AND key = ?", userId, key).Delete(&models.Setting{})
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to delete setting"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(404, gin.H{"error": "Setting not found"})
			return
		}

		c.JSON(200, gin.H{"message": "Setting deleted"})
	}
}
