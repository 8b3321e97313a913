package router

import (
	"net/http"

	"hemicycle/internal/handlers"
	"hemicycle/internal/middleware"
	"hemicycle/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps is everything the routes need.
type Deps struct {
	DB           *gorm.DB
	Legislators  *services.LegislatorService
	Stats        *services.StatsService
	Ballots      *services.BallotService
	Candidates   *services.CandidateService
	Scores       *services.CandidateScoreService
	Quiz         *services.QuizService
	AdminEnabled bool
	AdminToken   string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Handlers
	legislatorHandler := handlers.NewLegislatorHandler(d.Legislators, d.Stats)
	ballotHandler := handlers.NewBallotHandler(d.Ballots)
	candidateHandler := handlers.NewCandidateHandler(d.Candidates, d.Scores)
	quizHandler := handlers.NewQuizHandler(d.Quiz)

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			handlers.RespondError(c, http.StatusServiceUnavailable, "unavailable", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	// 议会数据 (Parliament data)
	api.GET("/groups", legislatorHandler.Groups)
	api.GET("/legislators", legislatorHandler.List)
	api.GET("/legislators/compare", legislatorHandler.Compare)
	api.GET("/legislators/:id", legislatorHandler.Detail)
	api.GET("/legislators/:id/stats", legislatorHandler.Stats)
	api.GET("/ballots", ballotHandler.List)
	api.GET("/ballots/:id", ballotHandler.Detail)

	// 候选人 (Candidates)
	api.GET("/candidates", candidateHandler.List)
	api.GET("/candidates/:id", candidateHandler.Detail)

	// 问卷 (Quiz)
	quiz := api.Group("/quiz")
	{
		quiz.GET("/questions", quizHandler.Questions)
		quiz.POST("/sessions", quizHandler.Start)
		quiz.POST("/sessions/:token/answers", quizHandler.Answer)
		quiz.POST("/sessions/:token/complete", quizHandler.Complete)
		quiz.GET("/sessions/:token/results", quizHandler.Results)
	}

	// 管理路由 (Admin Routes)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired(d.AdminEnabled, d.AdminToken))
	{
		admin.POST("/candidates", candidateHandler.Create)
		admin.GET("/candidates/:id", candidateHandler.AdminDetail)
		admin.POST("/candidates/:id/score", candidateHandler.Score)
		admin.POST("/candidates/:id/link", candidateHandler.Link)
		admin.POST("/candidates/:id/publish", candidateHandler.Publish)
		admin.POST("/candidates/:id/positions", candidateHandler.AddPosition)
		admin.PUT("/ballots/:id/votes", ballotHandler.ReplaceVotes)
	}
}
