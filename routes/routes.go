package routes

import (
	"arena-app/controllers/bet"
	"arena-app/controllers/fight"
	"arena-app/controllers/fund"
	"arena-app/controllers/staff"
	"arena-app/controllers/transfer"
	"arena-app/middlewares"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	bootstrap := app.Group("/bootstrap", middlewares.MasterAuth())
	bootstrap.Post("/staff", staff.Register)
	bootstrap.Post("/sessions", staff.IssueSession)

	api := app.Group("/api", middlewares.SessionAuth)

	fundroutes := api.Group("/fund")
	fundroutes.Post("/pools", fund.CreatePool)
	fundroutes.Get("/pools/:id", fund.GetPool)
	fundroutes.Post("/assign", fund.Assign)
	fundroutes.Post("/deduct", fund.Deduct)
	fundroutes.Post("/reset", fund.Reset)
	fundroutes.Get("/balances", fund.ListBalances)
	fundroutes.Get("/balances/:id", fund.GetBalance)

	transferroutes := api.Group("/transfers")
	transferroutes.Post("/", transfer.Initiate)
	transferroutes.Post("/request", transfer.Request)
	transferroutes.Post("/:id/approve", transfer.Approve)
	transferroutes.Post("/:id/decline", transfer.Decline)
	transferroutes.Get("/", transfer.History)

	fightroutes := api.Group("/fights")
	fightroutes.Post("/", fight.Create)
	fightroutes.Get("/:id", fight.Get)
	fightroutes.Post("/:id/open", fight.Open)
	fightroutes.Post("/:id/lastcall", fight.LastCall)
	fightroutes.Post("/:id/close", fight.Close)
	fightroutes.Post("/:id/cancel", fight.Cancel)
	fightroutes.Post("/:id/odds", fight.SetOdds)
	fightroutes.Post("/:id/side", fight.SetSideGate)
	fightroutes.Post("/:id/declare", fight.Declare)
	fightroutes.Get("/:id/bets", bet.ListByFight)
	fightroutes.Post("/normalize", fight.Normalize)

	betroutes := api.Group("/bets")
	betroutes.Post("/", bet.Place)
	betroutes.Get("/:ticket", bet.ByTicket)
	betroutes.Post("/:ticket/claim", bet.Claim)
}
