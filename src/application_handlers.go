package main

import (
	"buspass/src/lib"
	"buspass/src/lifecycle"
	"buspass/src/types"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func actorFromContext(ctx *gin.Context) lifecycle.Actor {
	return lifecycle.Actor{
		ID:    ctx.GetUint("id"),
		Admin: ctx.GetString("role") == types.ROLE_ADMIN,
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, lifecycle.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, lifecycle.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lifecycle.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithEngineError(ctx *gin.Context, err error) {
	ctx.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func bindApplicationID(ctx *gin.Context) (uuid.UUID, bool) {
	var params types.ApplicationURIParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(params.ID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return uuid.Nil, false
	}
	return id, true
}

func applicationHandlers(g *gin.RouterGroup, engine *lifecycle.Engine) *gin.RouterGroup {
	g.
		POST("/applications", func(ctx *gin.Context) {
			var body types.SubmitApplicationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			app, err := engine.Submit(ctx, actorFromContext(ctx), lifecycle.SubmitInput{
				StudentName: body.StudentName,
				CollegeName: body.CollegeName,
				Department:  body.Department,
				Year:        body.Year,
				RouteFrom:   body.RouteFrom,
				RouteTo:     body.RouteTo,
			})
			if err != nil {
				abortWithEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": app})
		}).
		GET("/applications", func(ctx *gin.Context) {
			apps, err := engine.ListForOwner(ctx, actorFromContext(ctx))
			if err != nil {
				abortWithEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": apps, "count": len(apps)})
		}).
		POST("/applications/:id/renew", func(ctx *gin.Context) {
			id, ok := bindApplicationID(ctx)
			if !ok {
				return
			}
			renewal, err := engine.Renew(ctx, actorFromContext(ctx), id)
			if err != nil {
				abortWithEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": renewal})
		}).
		GET("/applications/:id/pass", func(ctx *gin.Context) {
			id, ok := bindApplicationID(ctx)
			if !ok {
				return
			}
			pass, err := engine.DerivePass(ctx, actorFromContext(ctx), id)
			if err != nil {
				abortWithEngineError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": pass})
		}).
		GET("/applications/:id/pass/qr", func(ctx *gin.Context) {
			id, ok := bindApplicationID(ctx)
			if !ok {
				return
			}
			pass, err := engine.DerivePass(ctx, actorFromContext(ctx), id)
			if err != nil {
				abortWithEngineError(ctx, err)
				return
			}
			cacheKey := fmt.Sprintf("pass_qr:%s", id)
			rd := lib.GetRedisClient()
			if rd != nil {
				if cached, err := rd.Get(context.Background(), cacheKey).Result(); err == nil {
					if _, err := os.Stat(cached); err == nil {
						ctx.FileAttachment(cached, "buspass.jpeg")
						return
					}
				}
			}
			filepath := path.Join(os.TempDir(), fmt.Sprintf("buspass-%s.jpeg", id))
			if err := lib.RenderQRCode(pass.VerificationToken, filepath); err != nil {
				log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error while processing request"})
				return
			}
			if rd != nil {
				rd.SetEx(context.Background(), cacheKey, filepath, 2*time.Hour)
			}
			ctx.FileAttachment(filepath, "buspass.jpeg")
		})
	return g
}
