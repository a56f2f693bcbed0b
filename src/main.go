package main

import (
	"buspass/src/boot"
	"buspass/src/config"
	"buspass/src/db"
	"buspass/src/lib"
	"buspass/src/lifecycle"
	"buspass/src/middlewares"
	"buspass/src/notify"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

var academicYearValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	year, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	switch year {
	case "1", "2", "3", "4":
		return true
	}
	return false
}

func newGateway() lifecycle.Gateway {
	if os.Getenv("PAYMENT_GATEWAY") == "stripe" {
		log.Println("Using stripe payment gateway")
		return lib.StripeGateway{}
	}
	return lib.NewSimulatedGateway(config.GatewayLatency())
}

func newNotifier() notify.Notifier {
	if to := os.Getenv("NOTIFY_EMAIL"); to != "" {
		return notify.NewMailNotifier(to)
	}
	return notify.LogNotifier{}
}

func setupRouter(engine *lifecycle.Engine) *gin.Engine {
	router := gin.Default()

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("academicyear", academicYearValidatorFunc)
	}

	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PUT", "DELETE", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
	cc.AllowAllOrigins = true
	router.Use(cors.New(cc))

	guest := router.Group(apiPrefix)
	authHandlers(guest)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	{
		applicationHandlers(authorized, engine)
		paymentHandlers(authorized, engine)
	}

	admin := router.Group(apiPrefix + "/admin")
	admin.Use(middlewares.AuthMiddleware, middlewares.AdminMiddleware)
	{
		adminHandlers(admin, engine)
	}

	return router
}

func main() {
	gdb := boot.InitDb()
	boot.SeedAdmin(gdb)

	engine := lifecycle.NewEngine(db.GetDb(), newGateway(), newNotifier())

	router := setupRouter(engine)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server stopped: %s\n", err.Error())
	}
}
