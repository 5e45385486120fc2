package server

import (
	"fmt"
	"net/http"

	"presales-tracker/internal/config"
	"presales-tracker/internal/handlers"
	"presales-tracker/internal/middleware"
	"presales-tracker/internal/models"
	"presales-tracker/web"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "presales_session"

// writers may create records; ownership is checked per record by the handlers.
var writers = []models.UserRole{models.RoleAdmin, models.RoleSales, models.RolePresales}

func NewRouter(cfg *config.Config) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	tmpl, err := web.Templates(handlers.TemplateFuncs())
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", MaxAge: 86400 * 7, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, store))

	r.Use(middleware.InjectUser())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.GET("/login", handlers.ShowLogin)
	r.POST("/login", handlers.Login)
	r.GET("/logout", handlers.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.GET("/", handlers.Dashboard)

	canWrite := middleware.RequireRole(writers...)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// customers
	auth.GET("/customers", handlers.ListCustomers)
	auth.GET("/customers/new", canWrite, handlers.ShowNewCustomer)
	auth.POST("/customers/new", canWrite, handlers.CreateCustomer)
	auth.GET("/customers/:id", handlers.ShowCustomerDetail)
	auth.GET("/customers/:id/edit", canWrite, handlers.ShowEditCustomer)
	auth.POST("/customers/:id/edit", canWrite, handlers.UpdateCustomer)
	auth.GET("/customers/:id/delete", canWrite, handlers.ShowDeleteCustomer)
	auth.POST("/customers/:id/delete", canWrite, handlers.DeleteCustomer)

	// projects
	auth.GET("/projects", handlers.ListProjects)
	auth.GET("/projects/new", canWrite, handlers.ShowNewProject)
	auth.POST("/projects/new", canWrite, handlers.CreateProject)
	auth.GET("/projects/:id/edit", canWrite, handlers.ShowEditProject)
	auth.POST("/projects/:id/edit", canWrite, handlers.UpdateProject)
	auth.GET("/projects/:id/delete", canWrite, handlers.ShowDeleteProject)
	auth.POST("/projects/:id/delete", canWrite, handlers.DeleteProject)

	// proposals
	auth.GET("/proposals", handlers.ListProposals)
	auth.GET("/proposals/export", handlers.ExportProposals)
	auth.GET("/proposals/new", canWrite, handlers.ShowNewProposal)
	auth.POST("/proposals/new", canWrite, handlers.CreateProposal)
	auth.GET("/proposals/:id/edit", canWrite, handlers.ShowEditProposal)
	auth.POST("/proposals/:id/edit", canWrite, handlers.UpdateProposal)
	auth.GET("/proposals/:id/delete", canWrite, handlers.ShowDeleteProposal)
	auth.POST("/proposals/:id/delete", canWrite, handlers.DeleteProposal)
	auth.POST("/proposals/:id/status", canWrite, handlers.ChangeProposalStatus)
	auth.GET("/proposals/:id/history", handlers.ShowProposalHistory)

	// products
	auth.GET("/products", handlers.ListProducts)
	auth.GET("/products/new", canWrite, handlers.ShowNewProduct)
	auth.POST("/products/new", canWrite, handlers.CreateProduct)
	auth.GET("/products/:id/edit", canWrite, handlers.ShowEditProduct)
	auth.POST("/products/:id/edit", canWrite, handlers.UpdateProduct)
	auth.GET("/products/:id/delete", canWrite, handlers.ShowDeleteProduct)
	auth.POST("/products/:id/delete", canWrite, handlers.DeleteProduct)

	// users
	auth.GET("/users", handlers.ListUsers)
	auth.GET("/users/new", adminOnly, handlers.ShowNewUser)
	auth.POST("/users/new", adminOnly, handlers.CreateUser)
	auth.GET("/users/:id", handlers.ShowUser)
	auth.GET("/users/:id/edit", handlers.ShowEditUser)
	auth.POST("/users/:id/edit", handlers.UpdateUser)
	auth.GET("/users/:id/delete", adminOnly, handlers.ShowDeleteUser)
	auth.POST("/users/:id/delete", adminOnly, handlers.DeleteUser)

	auth.GET("/audit", adminOnly, handlers.ListAuditLogs)

	auth.GET("/api/projects/:id/customer", handlers.ProjectCustomer)

	return r, nil
}
