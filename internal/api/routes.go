package api

import (
	"net/http"
	"ragnar/training-app/internal/domain"
	"ragnar/training-app/internal/repository"
	"ragnar/training-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all handlers onto the router. inviteOrigin is the public
// front-end base URL used to build invitation links.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	inviteOrigin string,
	authService service.AuthService,
	trainerService service.TrainerService,
	exerciseService service.ExerciseService,
	sessionService service.SessionService,
	chatService service.ChatService,
	changeFeed repository.ChangeFeed,
) {

	authHandler := NewAuthHandler(authService)
	trainerHandler := NewTrainerHandler(trainerService, inviteOrigin)
	exerciseHandler := NewExerciseHandler(exerciseService)
	sessionHandler := NewSessionHandler(sessionService)
	chatHandler := NewChatHandler(chatService)
	streamHandler := NewStreamHandler(changeFeed)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		// Public: login, sign-up, and the invitation flow. The invite
		// endpoints back the ?invite=<key> landing screen.
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/invites/:inviteId", authHandler.ResolveInvite)
			authGroup.POST("/invites/:inviteId/register", authHandler.RegisterWithInvite)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)

		// --- Exercise Library ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.GetExercises) // Both roles
			exerciseGroup.POST("", RoleMiddleware(domain.RoleTrainer), exerciseHandler.CreateExercise)
			exerciseGroup.DELETE("/:exerciseId", RoleMiddleware(domain.RoleTrainer), exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:exerciseId/demo-upload", RoleMiddleware(domain.RoleTrainer), exerciseHandler.RequestDemoUpload)
			exerciseGroup.GET("/:exerciseId/demo", exerciseHandler.GetDemoDownloadURL)
		}

		// --- Trainer Surface ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.GET("/stats", trainerHandler.GetRosterStats)

			trainerGroup.POST("/athletes", trainerHandler.AddAthlete)
			trainerGroup.GET("/athletes", trainerHandler.GetRoster)
			trainerGroup.GET("/athletes/:athleteId", trainerHandler.GetAthlete)
			trainerGroup.PUT("/athletes/:athleteId/plan", trainerHandler.UpdateAthletePlan)
			trainerGroup.POST("/athletes/:athleteId/routine", trainerHandler.AppendRoutineNote)
			trainerGroup.GET("/athletes/:athleteId/invite", trainerHandler.GetInviteLink)

			trainerGroup.POST("/appointments", trainerHandler.ScheduleAppointment)
			trainerGroup.GET("/appointments", trainerHandler.GetAgenda)
			trainerGroup.DELETE("/appointments/:appointmentId", trainerHandler.CancelAppointment)
		}

		// --- Daily Sessions ---
		// Reads are shared (a student only their own profile, enforced in the
		// handler); planning writes are trainer-only, set recording is
		// student-only.
		athleteGroup := protected.Group("/athletes/:athleteId")
		{
			athleteGroup.GET("/sessions", sessionHandler.GetSessionDates)
			athleteGroup.GET("/sessions/:date", sessionHandler.GetSession)
			athleteGroup.POST("/sessions/:date/exercises", RoleMiddleware(domain.RoleTrainer), sessionHandler.AssignExercise)
			athleteGroup.DELETE("/sessions/:date/exercises/:entryId", RoleMiddleware(domain.RoleTrainer), sessionHandler.RemoveExercise)
			athleteGroup.PATCH("/sessions/:date/exercises/:entryId/sets/:setIndex", RoleMiddleware(domain.RoleStudent), sessionHandler.RecordSetResult)
			athleteGroup.POST("/sessions/:date/exercises/:entryId/sets/:setIndex/toggle", RoleMiddleware(domain.RoleStudent), sessionHandler.ToggleSetCompletion)

			// --- Chat ---
			athleteGroup.GET("/messages", chatHandler.GetHistory)
			athleteGroup.POST("/messages", chatHandler.SendMessage)
		}

		// --- Live Updates (SSE) ---
		streamGroup := protected.Group("/stream")
		{
			streamGroup.GET("/roster", RoleMiddleware(domain.RoleTrainer), streamHandler.StreamRoster)
			streamGroup.GET("/exercises", streamHandler.StreamExercises)
			streamGroup.GET("/athletes/:athleteId/sessions", streamHandler.StreamSessions)
			streamGroup.GET("/athletes/:athleteId/messages", streamHandler.StreamMessages)
		}
	}
}
