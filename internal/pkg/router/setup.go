package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/FoxPay/app/controllers"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

func InstallRouter(app *fiber.App, gw *controllers.Gateway) {
	setup(app, NewApiRouter(gw))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
