package routes

import (
	"github.com/Shakilofficial/nextmart-server/controllers"
	"github.com/gin-gonic/gin"
)

func RegisterPaymentRoutes(r *gin.Engine, pc *controllers.PaymentController) {
	payments := r.Group("/api/v1/payments")
	payments.POST("/initiate", pc.InitiatePayment)

	// SSLCommerz callbacks (no auth)
	ssl := r.Group("/api/v1/ssl")
	ssl.GET("/validate", pc.ValidatePayment)
	ssl.POST("/ipn", pc.IPN)
}
