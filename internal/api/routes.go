package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cinedex-backend-go/internal/core"
	"cinedex-backend-go/internal/db"
	"cinedex-backend-go/internal/identity"
	"cinedex-backend-go/internal/middleware"
)

// Dependencies are the services the routes are wired to.
type Dependencies struct {
	Catalog         core.CatalogService
	Recommendations core.RecommendationService
	Accounts        core.AccountService
	Reviews         db.ReviewRepository
	Verifier        identity.TokenVerifier
	Sessions        middleware.SessionProvider
}

// SetupRoutes registers every route. Global middleware (logging, recovery,
// CORS, rate limiting) is applied to router by the caller.
func SetupRoutes(router *gin.Engine, logger *zap.Logger, deps Dependencies) {
	authMW := middleware.NewAuthMiddleware(deps.Verifier, logger)
	sessionMW := middleware.RequireSession(deps.Sessions, logger)

	catalogHandler := NewCatalogHandler(deps.Catalog, deps.Reviews, logger)
	authHandler := NewAuthHandler(deps.Accounts, logger)
	libraryHandler := NewLibraryHandler(logger)
	recommendationHandler := NewRecommendationHandler(deps.Recommendations, logger)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/home", catalogHandler.Home)

		movies := apiV1.Group("/movies")
		{
			movies.GET("", catalogHandler.ListMovies)
			movies.GET("/filters", catalogHandler.Filters)
			movies.GET("/trending", catalogHandler.Trending)
			movies.GET("/top-rated", catalogHandler.TopRated)
			movies.GET("/popular", catalogHandler.Popular)
			movies.GET("/:movieId", catalogHandler.MovieDetail)
			movies.GET("/:movieId/images", catalogHandler.MovieImages)
			movies.GET("/:movieId/reviews", catalogHandler.MovieReviews)
		}

		search := apiV1.Group("/search")
		{
			search.GET("/movies", catalogHandler.SearchMovies)
			search.GET("/people", catalogHandler.SearchPeople)
		}

		people := apiV1.Group("/people")
		{
			people.GET("/popular", catalogHandler.PopularPeople)
			people.GET("/:personId", catalogHandler.PersonDetail)
		}

		auth := apiV1.Group("/auth")
		{
			auth.POST("/signup", authHandler.SignUp)
			auth.POST("/signin", authHandler.SignIn)
			auth.POST("/signin/federated", authHandler.SignInFederated)
			auth.POST("/signout", authMW.VerifyToken(), authHandler.SignOut)
		}

		me := apiV1.Group("/me", authMW.VerifyToken(), sessionMW)
		{
			me.GET("/profile", libraryHandler.GetProfile)
			me.PATCH("/profile", libraryHandler.UpdateProfile)

			me.GET("/watchlist", libraryHandler.ListWatchlist)
			me.POST("/watchlist", libraryHandler.AddToWatchlist)
			me.GET("/watchlist/:movieId", libraryHandler.GetWatchlistEntry)
			me.DELETE("/watchlist/:movieId", libraryHandler.RemoveFromWatchlist)

			me.GET("/reviews", libraryHandler.ListReviews)
			me.GET("/reviews/:movieId", libraryHandler.GetReview)
			me.PUT("/reviews/:movieId", libraryHandler.PutReview)

			me.GET("/ratings", libraryHandler.ListRatings)
			me.GET("/ratings/:movieId", libraryHandler.GetRating)
			me.PUT("/ratings/:movieId", libraryHandler.PutRating)

			me.GET("/recommendations", recommendationHandler.Recommend)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Cinedex backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1 and /health.")
}
