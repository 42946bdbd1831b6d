package router

import (
	"github.com/FullFarming/v0-invoice-management-system/config"
	"github.com/FullFarming/v0-invoice-management-system/internal/app/controller"
	"github.com/FullFarming/v0-invoice-management-system/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController      *controller.AuthController
	invoiceController   *controller.InvoiceController
	approvalController  *controller.ApprovalController
	directoryController *controller.DirectoryController
	socController       *controller.SocController
	uploadController    *controller.UploadController
	wsController        *controller.WSController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	invoiceController *controller.InvoiceController,
	approvalController *controller.ApprovalController,
	directoryController *controller.DirectoryController,
	socController *controller.SocController,
	uploadController *controller.UploadController,
	wsController *controller.WSController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		invoiceController:   invoiceController,
		approvalController:  approvalController,
		directoryController: directoryController,
		socController:       socController,
		uploadController:    uploadController,
		wsController:        wsController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Invoice Portal API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		invoices := v1.Group("/invoices")
		invoices.Use(r.authMiddleware.Authenticate())
		{
			invoices.POST("", r.invoiceController.Submit)
			invoices.GET("", r.invoiceController.ListMine)
			invoices.GET("/search", r.invoiceController.Search)
			invoices.GET("/export", r.invoiceController.ExportLedger)
			invoices.GET("/:number", r.invoiceController.GetByNumber)
			invoices.DELETE("/:number", r.invoiceController.Delete)

			invoices.POST("/:number/approve", r.approvalController.Approve)
			invoices.POST("/:number/reject", r.approvalController.Reject)
		}

		inbox := v1.Group("/inbox")
		inbox.Use(r.authMiddleware.Authenticate())
		{
			inbox.GET("/pending", r.approvalController.PendingForMe)
			inbox.GET("/completed", r.approvalController.CompletedByMe)
			inbox.GET("/awaiting", r.approvalController.AwaitingApproval)
			inbox.GET("/allocations", r.approvalController.MyAllocations)
		}

		soc := v1.Group("/soc")
		soc.Use(r.authMiddleware.Authenticate())
		{
			soc.GET("/check", r.socController.CheckCompany)
			soc.POST("/requests", r.socController.CreateRequest)
			soc.GET("/requests", r.socController.ListRequests)
			soc.GET("/requests/mine", r.socController.MyRequests)
			soc.GET("/requests/:id", r.socController.GetRequest)
			soc.GET("/confirmations", r.socController.ListConfirmations)

			// 승인/반려는 관리자 전용
			soc.POST("/requests/:id/approve", r.authMiddleware.RequireRole("admin"), r.socController.Approve)
			soc.POST("/requests/:id/reject", r.authMiddleware.RequireRole("admin"), r.socController.Reject)
		}

		companies := v1.Group("/companies")
		companies.Use(r.authMiddleware.Authenticate())
		{
			companies.GET("", r.directoryController.ListCompanies)
			companies.POST("", r.directoryController.RegisterCompany)
		}

		v1.GET("/employees", r.authMiddleware.Authenticate(), r.directoryController.ListEmployees)
		v1.GET("/referral-rates", r.authMiddleware.Authenticate(), r.directoryController.ListDepartmentRates)
		v1.GET("/currencies", r.authMiddleware.Authenticate(), r.directoryController.ListCurrencies)

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}

		// WebSocket은 쿼리 파라미터 토큰 인증을 허용한다
		v1.GET("/ws", r.authMiddleware.Authenticate(), r.wsController.Connect)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
