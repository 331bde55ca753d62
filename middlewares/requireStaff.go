package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const StaffPinHeader = "X-Staff-Pin"

// RequireStaff admits requests whose X-Staff-Pin matches the bcrypt hash
// configured for the device. With no hash configured staff routes are closed.
func RequireStaff(pinHash string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if pinHash == "" {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Staff access is not configured on this device"})
			return
		}

		pin := ctx.GetHeader(StaffPinHeader)
		if pin == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Staff PIN required"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(pinHash), []byte(pin)); err != nil {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid staff PIN"})
			return
		}

		ctx.Next()
	}
}
