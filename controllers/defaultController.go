package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Shopkart API.

The following are the endpoints for this API:

AUTH
- POST "/auth/register" - Create user account
- POST "/auth/login" - Access user account
- POST "/auth/forgot-password" - Reset password with security answer
- PUT "/auth/profile" - Update profile

PRODUCT
- GET "/product" - Get all products
- GET "/product/:slug" - Get product by slug
- GET "/product/photo/:pid" - Get product photo

CART & WISHLIST
- GET "/cart" - Fetch current cart
- POST "/cart" - Overwrite cart
- POST "/cart/sync" - Merge guest cart after login
- GET "/wishlist" - Fetch wishlist
- POST "/wishlist" - Overwrite wishlist

PAYMENT & ORDERS
- GET "/payment/client-token" - Obtain gateway client token
- POST "/payment/checkout" - Settle payment and create order
- GET "/orders/mine" - List own orders
- GET "/orders/all" - List all orders (admin)
- PUT "/orders/:orderId/status" - Set fulfilment status (admin)`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
