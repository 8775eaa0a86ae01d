package router

import (
	"time"

	"github.com/3pWEBQUERY/TGND/internal/feed"
	"github.com/3pWEBQUERY/TGND/internal/handlers"
	"github.com/3pWEBQUERY/TGND/internal/interaction"
	"github.com/3pWEBQUERY/TGND/internal/middleware"
	"github.com/3pWEBQUERY/TGND/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps carries everything the handlers need. Redis may be nil, which disables
// rate limiting.
type Deps struct {
	DB       *gorm.DB
	Engine   *interaction.Engine
	Feed     *feed.Service
	Media    storage.BlobStore
	Profiles storage.BlobStore
	Redis    *redis.Client
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	authHandler := handlers.NewAuthHandler(d.DB)
	profileHandler := handlers.NewProfileHandler(d.DB)
	postHandler := handlers.NewPostHandler(d.DB, d.Feed)
	commentHandler := handlers.NewCommentHandler(d.DB, d.Feed)
	likeHandler := handlers.NewLikeHandler(d.Engine)
	pollHandler := handlers.NewPollHandler(d.DB, d.Engine)
	uploadHandler := handlers.NewUploadHandler(d.Media, d.Profiles)

	r.Use(middleware.LoadUser(d.DB))

	api := r.Group("/api")

	// Account routes reachable without a session. Registration and login get a
	// tight rate limit since they are the brute-force surface.
	account := api.Group("/")
	account.Use(middleware.RateLimit(d.Redis, 10, time.Minute))
	{
		account.POST("/register", authHandler.Register)
		account.POST("/register/validate", authHandler.ValidateStep)
		account.POST("/register-upload", uploadHandler.ProfileImage)
		account.POST("/login", authHandler.Login)
		account.POST("/logout", authHandler.Logout)
	}

	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	authorized.Use(middleware.RateLimit(d.Redis, 120, time.Minute))
	{
		authorized.GET("/profile/current", profileHandler.Current)
		authorized.PUT("/profile", profileHandler.Update)
		authorized.PUT("/user/password", profileHandler.ChangePassword)

		authorized.POST("/posts", postHandler.Create)
		authorized.GET("/posts", postHandler.List)
		authorized.GET("/posts/:postId", postHandler.Get)
		authorized.PUT("/posts/:postId", postHandler.Update)
		authorized.DELETE("/posts/:postId", postHandler.Delete)

		authorized.GET("/posts/:postId/comments", commentHandler.List)
		authorized.POST("/posts/:postId/comments", commentHandler.Create)
		authorized.POST("/posts/:postId/comments/:commentId/replies", commentHandler.CreateReply)
		authorized.DELETE("/comments/:commentId", commentHandler.Delete)
		authorized.DELETE("/replies/:replyId", commentHandler.DeleteReply)

		authorized.POST("/posts/:postId/likes", likeHandler.LikePost)
		authorized.DELETE("/posts/:postId/likes", likeHandler.UnlikePost)
		authorized.POST("/posts/:postId/comments/:commentId/likes", likeHandler.LikeComment)
		authorized.DELETE("/posts/:postId/comments/:commentId/likes", likeHandler.UnlikeComment)
		authorized.POST("/replies/:replyId/likes", likeHandler.LikeReply)
		authorized.DELETE("/replies/:replyId/likes", likeHandler.UnlikeReply)

		authorized.POST("/polls", pollHandler.Create)
		authorized.GET("/polls", pollHandler.List)
		authorized.GET("/polls/:pollId", pollHandler.Get)
		authorized.POST("/polls/:pollId/vote", pollHandler.Vote)
		authorized.DELETE("/polls/:pollId/vote", pollHandler.RetractVote)

		authorized.POST("/upload", uploadHandler.Media)
	}
}
