package main

import (
	"fmt"
	"log"
	"net/http"

	"storiny/backend/internal/auth"
	"storiny/backend/internal/cache"
	"storiny/backend/internal/config"
	"storiny/backend/internal/database"
	"storiny/backend/internal/handler"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "storiny/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Storiny API
// @version         1.0
// @description     This is the API for the Storiny service.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	redisCache := cache.NewRedisCache(config.AppConfig.RedisAddr)
	handler.Init(database.DB, redisCache)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Auth routes
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// Public user routes; friend listing works for anonymous viewers too
		userRoutes := v1.Group("/user")
		userRoutes.Use(auth.OptionalAuthMiddleware())
		{
			userRoutes.GET("/:user_id/friends", handler.ListUserFriends)
			userRoutes.GET("/:user_id/stories", handler.GetUserStories)
		}

		// Account routes (protected)
		meRoutes := v1.Group("/me")
		meRoutes.Use(auth.AuthMiddleware())
		{
			meRoutes.POST("/deactivate", handler.DeactivateMe)
			meRoutes.POST("/activate", handler.ActivateMe)
			meRoutes.POST("/restore", handler.RestoreMe)
			meRoutes.DELETE("", handler.DeleteMe)
		}

		// Social graph routes (protected)
		usersRoutes := v1.Group("/users")
		usersRoutes.Use(auth.AuthMiddleware())
		{
			usersRoutes.GET("/me", handler.GetMe)

			// Friendship routes
			usersRoutes.POST("/:id/request", handler.SendRequest)
			usersRoutes.POST("/:id/accept", handler.AcceptRequest)
			usersRoutes.POST("/:id/decline", handler.DeclineRequest)
			usersRoutes.POST("/:id/remove", handler.RemoveFriend)

			// Follow routes
			usersRoutes.POST("/:id/follow", handler.FollowUser)
			usersRoutes.POST("/:id/unfollow", handler.UnfollowUser)
		}

		// Story routes (protected)
		storyRoutes := v1.Group("/stories")
		storyRoutes.Use(auth.AuthMiddleware())
		{
			storyRoutes.POST("", handler.CreateStory)
			storyRoutes.POST("/:id/comments", handler.CreateComment)
			storyRoutes.POST("/:id/like", handler.LikeStory)
			storyRoutes.POST("/:id/bookmark", handler.BookmarkStory)
		}

		// Tag routes
		tagRoutes := v1.Group("/tags")
		{
			tagRoutes.GET("", handler.GetTags)
			tagRoutes.POST("/:id/follow", auth.AuthMiddleware(), handler.FollowTag)
			tagRoutes.POST("/:id/unfollow", auth.AuthMiddleware(), handler.UnfollowTag)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			adminRoutes.POST("/tags", handler.CreateTag)
			adminRoutes.DELETE("/users/:id", handler.HardDeleteUser)
		}
	}

	fmt.Printf("Server is running on %s\n", config.AppConfig.ServerAddr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ServerAddr))
}
