package main

import (
	"buspass/src/lifecycle"
	"buspass/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func adminHandlers(g *gin.RouterGroup, engine *lifecycle.Engine) *gin.RouterGroup {
	g.
		GET("/applications", func(ctx *gin.Context) {
			apps, err := engine.ListAll(ctx, actorFromContext(ctx))
			if err != nil {
				abortWithEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": apps, "count": len(apps)})
		}).
		PUT("/applications/:id/status", func(ctx *gin.Context) {
			id, ok := bindApplicationID(ctx)
			if !ok {
				return
			}
			var body types.SetStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			app, err := engine.SetStatus(ctx, actorFromContext(ctx), id, types.ApplicationStatus(body.Status))
			if err != nil {
				abortWithEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": app})
		}).
		GET("/stats", func(ctx *gin.Context) {
			stats, err := engine.GetStats(ctx, actorFromContext(ctx))
			if err != nil {
				abortWithEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": stats})
		})
	return g
}
