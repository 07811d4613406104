package router

import (
	"github.com/bergizi/backend/internal/domain/identity"
	"github.com/bergizi/backend/internal/interfaces/http/handler"
	"github.com/bergizi/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers are the HTTP handlers mounted under the API prefix
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	SPPG         *handler.SPPGHandler
	Menu         *handler.MenuHandler
	Inventory    *handler.InventoryHandler
	Procurement  *handler.ProcurementHandler
	Production   *handler.ProductionHandler
	Distribution *handler.DistributionHandler
	HR           *handler.HRHandler
	Feedback     *handler.FeedbackHandler
	Dashboard    *handler.DashboardHandler
	Realtime     *handler.RealtimeHandler
	System       *handler.SystemHandler
}

// Guards are the middleware chains the API groups are built from
type Guards struct {
	// Auth validates the bearer token
	Auth gin.HandlerFunc
	// Tenant resolves the SPPG a request works on
	Tenant gin.HandlerFunc
	// Idempotency rejects repeated writes. Optional.
	Idempotency gin.HandlerFunc
	// Profiling tags CPU profiles with the route
	Profiling bool
}

// APIGroups declares every versioned route
func APIGroups(h Handlers, g Guards) []*DomainGroup {
	groups := []*DomainGroup{
		systemRoutes(h),
		authRoutes(h, g),
		realtimeRoutes(h, g),
		platformRoutes(h, g),
	}
	return append(groups, tenantRoutes(h, g)...)
}

func can(resource, action string) gin.HandlerFunc {
	return middleware.RequirePermission(string(identity.NewPermission(resource, action)))
}

func read(resource string) gin.HandlerFunc   { return can(resource, identity.ActionRead) }
func create(resource string) gin.HandlerFunc { return can(resource, identity.ActionCreate) }
func update(resource string) gin.HandlerFunc { return can(resource, identity.ActionUpdate) }
func remove(resource string) gin.HandlerFunc { return can(resource, identity.ActionDelete) }

func systemRoutes(h Handlers) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)
}

func authRoutes(h Handlers, g Guards) *DomainGroup {
	return NewDomainGroup("auth", "/auth").
		POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.Refresh).
		POST("/logout", g.Auth, h.Auth.Logout).
		GET("/me", g.Auth, h.Auth.Me).
		PUT("/password", g.Auth, h.Auth.ChangePassword)
}

func realtimeRoutes(h Handlers, g Guards) *DomainGroup {
	return NewDomainGroup("realtime", "/realtime").
		Use(g.Auth).
		GET("/sse", h.Realtime.SSE).
		GET("/ws", h.Realtime.WebSocket)
}

func platformRoutes(h Handlers, g Guards) *DomainGroup {
	platform := NewDomainGroup("platform", "/platform").
		Use(g.Auth, middleware.RequirePlatformRole(), middleware.SpanAttributes())
	if g.Idempotency != nil {
		platform.Use(g.Idempotency)
	}

	const sppg = identity.ResourceSPPG
	platform.Group("sppg", "/sppg").
		POST("", create(sppg), h.SPPG.Create).
		GET("", read(sppg), h.SPPG.List).
		GET("/code/:code", read(sppg), h.SPPG.GetByCode).
		GET("/:id", read(sppg), h.SPPG.Get).
		PUT("/:id", update(sppg), h.SPPG.Update).
		POST("/:id/activate", update(sppg), h.SPPG.Activate).
		POST("/:id/suspend", update(sppg), h.SPPG.Suspend)

	const dashboard = identity.ResourceDashboard
	platform.
		GET("/summary", read(dashboard), h.Dashboard.PlatformSummary).
		GET("/events", read(dashboard), h.Dashboard.PlatformEvents)
	return platform
}

// tenantRoutes are the SPPG-scoped groups. Each request runs with the
// resolved SPPG in context and is checked against the caller's permissions.
func tenantRoutes(h Handlers, g Guards) []*DomainGroup {
	chain := []gin.HandlerFunc{g.Auth, g.Tenant, middleware.SpanAttributes(), middleware.Profiling(g.Profiling)}
	if g.Idempotency != nil {
		chain = append(chain, g.Idempotency)
	}
	group := func(name, prefix string) *DomainGroup {
		return NewDomainGroup(name, prefix).Use(chain...)
	}

	const user = identity.ResourceUser
	users := group("users", "/users").
		POST("", create(user), h.User.Create).
		GET("", read(user), h.User.List).
		GET("/roles", read(user), h.User.Roles).
		GET("/:id", read(user), h.User.Get).
		PUT("/:id", update(user), h.User.Update).
		POST("/:id/activate", update(user), h.User.Activate).
		POST("/:id/deactivate", update(user), h.User.Deactivate).
		PUT("/:id/password", update(user), h.User.ResetPassword).
		DELETE("/:id", remove(user), h.User.Delete)

	const menu, nutrition = identity.ResourceMenu, identity.ResourceNutrition
	menus := group("menu", "/menus").
		POST("", create(menu), h.Menu.Create).
		GET("", read(menu), h.Menu.List).
		GET("/:id", read(menu), h.Menu.Get).
		PUT("/:id", update(menu), h.Menu.Update).
		DELETE("/:id", remove(menu), h.Menu.Delete).
		PUT("/:id/ingredients", update(menu), h.Menu.SetIngredients).
		GET("/:id/nutrition", read(nutrition), h.Menu.Nutrition).
		GET("/:id/card.pdf", read(menu), h.Menu.PrintCard)

	const plan = identity.ResourceMenuPlan
	plans := group("menu_plan", "/menu-plans").
		POST("", create(plan), h.Menu.CreatePlan).
		GET("", read(plan), h.Menu.ListPlans).
		GET("/:id", read(plan), h.Menu.GetPlan).
		PUT("/:id", update(plan), h.Menu.UpdatePlan).
		POST("/:id/approve", can(plan, identity.ActionApprove), h.Menu.ApprovePlan).
		DELETE("/:id", remove(plan), h.Menu.DeletePlan)

	const inv = identity.ResourceInventory
	inventory := group("inventory", "/inventory").
		POST("/items", create(inv), h.Inventory.Create).
		GET("/items", read(inv), h.Inventory.List).
		GET("/items/:id", read(inv), h.Inventory.Get).
		PUT("/items/:id", update(inv), h.Inventory.Update).
		DELETE("/items/:id", remove(inv), h.Inventory.Delete).
		POST("/items/:id/stock-in", update(inv), h.Inventory.StockIn).
		POST("/items/:id/stock-out", update(inv), h.Inventory.StockOut).
		POST("/items/:id/adjust", update(inv), h.Inventory.Adjust).
		GET("/low-stock", read(inv), h.Inventory.LowStock).
		GET("/movements", read(inv), h.Inventory.Movements)

	const supplier = identity.ResourceSupplier
	suppliers := group("supplier", "/suppliers").
		POST("", create(supplier), h.Procurement.CreateSupplier).
		GET("", read(supplier), h.Procurement.ListSuppliers).
		GET("/:id", read(supplier), h.Procurement.GetSupplier).
		PUT("/:id", update(supplier), h.Procurement.UpdateSupplier).
		DELETE("/:id", remove(supplier), h.Procurement.DeleteSupplier)

	const proc = identity.ResourceProcurement
	procurement := group("procurement", "/procurement")
	procurement.Group("orders", "/orders").
		POST("", create(proc), h.Procurement.CreateOrder).
		GET("", read(proc), h.Procurement.ListOrders).
		GET("/:id", read(proc), h.Procurement.GetOrder).
		PUT("/:id", update(proc), h.Procurement.UpdateOrder).
		POST("/:id/submit", update(proc), h.Procurement.SubmitOrder).
		POST("/:id/approve", can(proc, identity.ActionApprove), h.Procurement.ApproveOrder).
		POST("/:id/receive", update(proc), h.Procurement.ReceiveOrder).
		POST("/:id/cancel", update(proc), h.Procurement.CancelOrder)

	const prod = identity.ResourceProduction
	productions := group("production", "/productions").
		POST("", create(prod), h.Production.Create).
		GET("", read(prod), h.Production.List).
		GET("/:id", read(prod), h.Production.Get).
		POST("/:id/start", update(prod), h.Production.Start).
		POST("/:id/cook", update(prod), h.Production.Cook).
		POST("/:id/quality-check", update(prod), h.Production.QualityCheck).
		POST("/:id/complete", update(prod), h.Production.Complete).
		POST("/:id/cancel", update(prod), h.Production.Cancel)

	const school = identity.ResourceSchool
	schools := group("school", "/schools").
		POST("", create(school), h.Distribution.CreateSchool).
		GET("", read(school), h.Distribution.ListSchools).
		GET("/:id", read(school), h.Distribution.GetSchool).
		PUT("/:id", update(school), h.Distribution.UpdateSchool).
		DELETE("/:id", remove(school), h.Distribution.DeleteSchool)

	const dist = identity.ResourceDistribution
	distributions := group("distribution", "/distributions").
		POST("", create(dist), h.Distribution.Create).
		GET("", read(dist), h.Distribution.List).
		GET("/:id", read(dist), h.Distribution.Get).
		POST("/:id/prepare", update(dist), h.Distribution.Prepare).
		POST("/:id/depart", update(dist), h.Distribution.Depart).
		POST("/:id/deliver", update(dist), h.Distribution.Deliver).
		POST("/:id/cancel", update(dist), h.Distribution.Cancel).
		POST("/:id/proof", update(dist), h.Distribution.UploadProof).
		GET("/:id/proof", read(dist), h.Distribution.GetProof).
		GET("/:id/delivery-note.pdf", read(dist), h.Distribution.DeliveryNote)

	const emp = identity.ResourceEmployee
	employees := group("employee", "/employees").
		POST("", create(emp), h.HR.CreateEmployee).
		GET("", read(emp), h.HR.ListEmployees).
		GET("/:id", read(emp), h.HR.GetEmployee).
		PUT("/:id", update(emp), h.HR.UpdateEmployee).
		POST("/:id/activate", update(emp), h.HR.ActivateEmployee).
		POST("/:id/deactivate", update(emp), h.HR.DeactivateEmployee)

	const att = identity.ResourceAttendance
	attendance := group("attendance", "/attendance").
		POST("/check-in", create(att), h.HR.CheckIn).
		POST("/check-out", update(att), h.HR.CheckOut).
		POST("/absence", create(att), h.HR.RecordAbsence).
		GET("", read(att), h.HR.ListAttendance).
		GET("/summary", read(att), h.HR.AttendanceSummary)

	const fb = identity.ResourceFeedback
	feedback := group("feedback", "/feedback").
		POST("", create(fb), h.Feedback.Submit).
		GET("", read(fb), h.Feedback.List).
		GET("/stats", read(fb), h.Feedback.Stats).
		GET("/:id", read(fb), h.Feedback.Get).
		GET("/:id/attachment", read(fb), h.Feedback.Attachment).
		POST("/:id/review", update(fb), h.Feedback.Review).
		POST("/:id/respond", update(fb), h.Feedback.Respond)

	const dash = identity.ResourceDashboard
	dashboard := group("dashboard", "/dashboard").
		GET("/summary", read(dash), h.Dashboard.Summary).
		GET("/events", read(dash), h.Dashboard.Events)

	return []*DomainGroup{
		users, menus, plans, inventory, suppliers, procurement, productions,
		schools, distributions, employees, attendance, feedback, dashboard,
	}
}
