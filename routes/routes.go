package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/orionsociety/astroclub-backend/config"
	controllers "github.com/orionsociety/astroclub-backend/controllers"
	middleware "github.com/orionsociety/astroclub-backend/middleware"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	// public
	r.POST("/auth/register", controllers.Register(cfg))
	r.POST("/auth/login", controllers.Login(cfg))
	r.POST("/auth/google", controllers.GoogleLogin(cfg))
	r.POST("/auth/refresh", controllers.RefreshToken(cfg))

	auth := middleware.AuthMiddleware(cfg)
	admin := middleware.RequireAdmin()

	r.GET("/auth/me", auth, controllers.Me(cfg))

	// Events: public reads, admin writes, member registration
	events := r.Group("/events")
	{
		events.GET("", controllers.ListEvents(cfg))
		events.GET("/:id", controllers.GetEvent(cfg))
		events.POST("", auth, admin, controllers.CreateEvent(cfg))
		events.PATCH("/:id", auth, admin, controllers.UpdateEvent(cfg))
		events.DELETE("/:id", auth, admin, controllers.DeleteEvent(cfg))
		events.POST("/:id/register", auth, controllers.RegisterForEvent(cfg))
		events.DELETE("/:id/register", auth, controllers.UnregisterFromEvent(cfg))
	}

	// Event proposals
	proposals := r.Group("/proposals")
	proposals.Use(auth)
	{
		proposals.POST("", controllers.CreateProposal(cfg))
		proposals.GET("", controllers.ListProposals(cfg))
		proposals.GET("/:id", controllers.GetProposal(cfg))
		proposals.PATCH("/:id/status", admin, controllers.UpdateProposalStatus(cfg))
		proposals.DELETE("/:id", admin, controllers.DeleteProposal(cfg))
	}

	// Blog
	posts := r.Group("/posts")
	{
		posts.GET("", controllers.ListPosts(cfg))
		posts.GET("/:id", middleware.OptionalAuth(cfg), controllers.GetPost(cfg))
		posts.POST("", auth, admin, controllers.CreatePost(cfg))
		posts.PATCH("/:id", auth, admin, controllers.UpdatePost(cfg))
		posts.DELETE("/:id", auth, admin, controllers.DeletePost(cfg))
	}
	r.GET("/admin/posts", auth, admin, controllers.ListAllPosts(cfg))

	// Forum
	discussions := r.Group("/discussions")
	{
		discussions.GET("", controllers.ListDiscussions(cfg))
		discussions.GET("/:id", controllers.GetDiscussion(cfg))
		discussions.POST("", auth, controllers.CreateDiscussion(cfg))
		discussions.POST("/:id/comments", auth, controllers.AddComment(cfg))
		discussions.POST("/:id/like", auth, controllers.LikeDiscussion(cfg))
		discussions.DELETE("/:id", auth, controllers.DeleteDiscussion(cfg))
	}

	// Contact form: open to anonymous visitors, managed by admins
	r.POST("/contact", middleware.OptionalAuth(cfg), controllers.CreateContactMessage(cfg))
	contact := r.Group("/contact")
	contact.Use(auth, admin)
	{
		contact.GET("", controllers.ListContactMessages(cfg))
		contact.PATCH("/:id/status", controllers.UpdateContactMessageStatus(cfg))
		contact.DELETE("/:id", controllers.DeleteContactMessage(cfg))
	}

	// Site settings singleton
	r.GET("/settings", controllers.GetSettings(cfg))
	r.PUT("/settings", auth, admin, controllers.UpdateSettings(cfg))

	// Admin user management
	users := r.Group("/users")
	users.Use(auth, admin)
	{
		users.GET("", controllers.ListUsers(cfg))
		users.GET("/:id", controllers.GetUser(cfg))
		users.PATCH("/:id", controllers.UpdateUser(cfg))
		users.DELETE("/:id", controllers.DeleteUser(cfg))
	}
}
