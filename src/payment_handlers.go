package main

import (
	"buspass/src/lifecycle"
	"buspass/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func paymentHandlers(g *gin.RouterGroup, engine *lifecycle.Engine) *gin.RouterGroup {
	g.
		POST("/applications/:id/pay", func(ctx *gin.Context) {
			id, ok := bindApplicationID(ctx)
			if !ok {
				return
			}
			// Card fields are accepted for the payment form round trip but
			// never stored; the gateway decides what to do with the charge.
			var body types.PayRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			app, payment, err := engine.Pay(ctx, actorFromContext(ctx), id, lifecycle.PayInput{
				Mode: body.Mode,
			})
			if err != nil {
				abortWithEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": app, "payment": payment})
		}).
		GET("/payments", func(ctx *gin.Context) {
			payments, err := engine.ListPayments(ctx, actorFromContext(ctx))
			if err != nil {
				abortWithEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payments, "count": len(payments)})
		})
	return g
}
