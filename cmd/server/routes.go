package main

import (
	"github.com/gin-gonic/gin"

	"github.com/paynet/iso20022-orchestrator/internal/interfaces/http/handlers"
	"github.com/paynet/iso20022-orchestrator/internal/interfaces/http/middleware"
)

type routeDeps struct {
	uetrHandler          *handlers.UETRHandler
	routingHandler       *handlers.RoutingHandler
	payloadHandler       *handlers.PayloadHandler
	fraudHandler         *handlers.FraudHandler
	orchestrationHandler *handlers.OrchestrationHandler
	repairHandler        *handlers.RepairHandler
	resiliencyHandler    *handlers.ResiliencyHandler
	tenantAuth           gin.HandlerFunc
}

// registerAPIV1Routes wires every SPEC_FULL.md operational endpoint onto the
// engine, grounded on the teacher's registerAPIV1Routes grouping-by-resource
// shape. Every group here is tenant-scoped (X-API-Key), unlike the teacher's
// mix of public/dual-auth groups, since this API has no end-user login —
// only UETR generation/validation and payload transformation stay public,
// mirroring the teacher's split between public read routes and protected
// write routes.
func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// UETR routes (generation/validation public; track, journey and statistics tenant-scoped)
		uetr := v1.Group("/uetr")
		{
			uetr.POST("/generate", d.uetrHandler.Generate)
			uetr.GET("/track/:uetr", d.tenantAuth, d.uetrHandler.Track)
			uetr.GET("/validate/:uetr", d.uetrHandler.Validate)
			uetr.GET("/journey/:uetr", d.tenantAuth, d.uetrHandler.Journey)
			uetr.GET("/statistics", d.tenantAuth, d.uetrHandler.Statistics)
		}

		// Routing routes (protected)
		routing := v1.Group("/routing")
		routing.Use(d.tenantAuth)
		{
			routing.GET("/route", d.routingHandler.Route)
			routing.POST("/route", d.routingHandler.Route)
		}

		// Payload transform routes (public, stateless mapping)
		payload := v1.Group("/payload")
		{
			payload.POST("/transform", d.payloadHandler.Transform)
		}

		// Fraud routes (protected)
		fraud := v1.Group("/fraud")
		fraud.Use(d.tenantAuth)
		{
			fraud.POST("/configurations", d.fraudHandler.CreateConfiguration)
			fraud.GET("/assessments", d.fraudHandler.ListAssessments)
		}

		// Orchestration routes (protected)
		orchestration := v1.Group("/orchestration")
		orchestration.Use(d.tenantAuth)
		{
			orchestration.POST("/payments", middleware.IdempotencyMiddleware(), d.orchestrationHandler.ProcessPayment)
		}

		// Repair queue routes (protected)
		repairs := v1.Group("/repairs")
		repairs.Use(d.tenantAuth)
		{
			repairs.POST("", d.repairHandler.Create)
			repairs.GET("", d.repairHandler.List)
			repairs.GET("/statistics", d.repairHandler.Statistics)
			repairs.POST("/:id/assign", d.repairHandler.Assign)
			repairs.POST("/:id/action", d.repairHandler.Action)
			repairs.POST("/:id/resolve", d.repairHandler.Resolve)
		}

		// Resiliency/self-healing monitor routes (protected)
		resiliency := v1.Group("/resiliency")
		resiliency.Use(d.tenantAuth)
		{
			resiliency.GET("/health", d.resiliencyHandler.Health)
			resiliency.POST("/queued-messages/reprocess", d.resiliencyHandler.ReprocessQueuedMessages)
			resiliency.POST("/recovery/trigger", d.resiliencyHandler.TriggerRecovery)
			resiliency.POST("/circuit-breaker/reset", d.resiliencyHandler.ResetCircuitBreaker)
		}
	}
}
