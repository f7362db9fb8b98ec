package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"booking-backend/internal/auth"
	"booking-backend/internal/mw"
	"booking-backend/internal/notification"
	"booking-backend/internal/store"
)

// Options carries the router's tunables from the config file.
type Options struct {
	RateLimitPerSec float64
	RateLimitBurst  int
	CacheTTL        time.Duration
}

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, tm *auth.TokenManager, pool *notification.WorkerPool, webpushOptions *webpush.Options, opts Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, tm, pool, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(opts.RateLimitPerSec), opts.RateLimitBurst)
	cacheStore := cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	caching := mw.Cache(cacheStore, opts.CacheTTL)

	requireAuth := mw.RequireAuth(tm)
	requireAdmin := mw.RequireAdmin()

	r.Use(rateLimiter)

	r.POST("/sign-in", handler.SignIn)
	r.POST("/sign-out", handler.SignOut)
	r.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

	reservations := r.Group("/reservations", requireAuth)
	{
		reservations.GET("/dashboard/:userId", handler.GetDashboard)
		reservations.GET("/:itemType", handler.GetReservationsByType)
		reservations.POST("/:itemId", handler.CreateReservation)
		reservations.PATCH("/:reservationId", handler.UpdateReservation)
		reservations.DELETE("/:reservationId", handler.DeleteReservation)
	}

	items := r.Group("/items", requireAuth)
	{
		items.GET("", caching, handler.GetItems)
		items.GET("/:itemType", caching, handler.GetItems)
		items.POST("/:itemType", requireAdmin, handler.CreateItem)
		items.PATCH("/:itemId", requireAdmin, handler.UpdateItem)
		items.DELETE("/:itemId", requireAdmin, handler.DeleteItem)
	}

	categories := r.Group("/categories", requireAuth)
	{
		categories.GET("", caching, handler.GetCategories)
		categories.POST("", requireAdmin, handler.CreateCategory)
		categories.PATCH("/:categoryId", requireAdmin, handler.UpdateCategory)
		categories.DELETE("/:categoryId", requireAdmin, handler.DeleteCategory)
	}

	users := r.Group("/users", requireAuth)
	{
		users.GET("", handler.GetUsers)
		users.GET("/:userId", handler.GetUser)
		users.POST("", requireAdmin, handler.CreateUser)
		users.PATCH("/me/password", handler.UpdateMyPassword)
		users.PATCH("/me/image", handler.UpdateMyProfileImage)
		users.PATCH("/:userId", requireAdmin, handler.UpdateUser)
		users.DELETE("/:userId", requireAdmin, handler.DeleteUser)
	}

	teams := r.Group("/teams", requireAuth)
	{
		teams.GET("", handler.GetTeams)
		teams.POST("", requireAdmin, handler.CreateTeam)
		teams.PATCH("/:teamId", requireAdmin, handler.UpdateTeam)
		teams.DELETE("/:teamId", requireAdmin, handler.DeleteTeam)
	}

	subscriptions := r.Group("/subscriptions", requireAuth)
	{
		subscriptions.GET("", handler.GetSubscription)
		subscriptions.PUT("", handler.PutSubscription)
		subscriptions.DELETE("", handler.DeleteSubscription)
	}

	return r
}
