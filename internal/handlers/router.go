package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduverse/school-service/internal/models"
	"github.com/eduverse/school-service/internal/services"
	"github.com/eduverse/school-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	tenantHandler       *TenantHandler
	adminHandler        *AdminHandler
	teacherHandler      *TeacherHandler
	studentHandler      *StudentHandler
	courseHandler       *CourseHandler
	assignmentHandler   *AssignmentHandler
	submissionHandler   *SubmissionHandler
	quizHandler         *QuizHandler
	subscriptionHandler *SubscriptionHandler
	authMiddleware      *JWTAuthMiddleware
	serviceManager      services.ServiceManager
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), logger),
		tenantHandler:       NewTenantHandler(serviceManager.Tenant(), logger),
		adminHandler:        NewAdminHandler(serviceManager.Admin(), serviceManager.Notification(), logger),
		teacherHandler:      NewTeacherHandler(serviceManager.Teacher(), logger),
		studentHandler:      NewStudentHandler(serviceManager.Student(), logger),
		courseHandler:       NewCourseHandler(serviceManager.Course(), logger),
		assignmentHandler:   NewAssignmentHandler(serviceManager.Assignment(), logger),
		submissionHandler:   NewSubmissionHandler(serviceManager.Submission(), logger),
		quizHandler:         NewQuizHandler(serviceManager.Quiz(), logger),
		subscriptionHandler: NewSubscriptionHandler(serviceManager.Subscription(), logger),
		authMiddleware:      NewJWTAuthMiddleware(serviceManager.Auth()),
		serviceManager:      serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	requireRole := hm.authMiddleware.RequireRoleMiddleware

	// Public routes
	router.POST("/api/v1/auth/login", hm.authHandler.Login)
	router.POST("/api/v1/auth/admin/signup", hm.authHandler.AdminSignup)
	router.POST("/api/v1/auth/teacher/signup", hm.authHandler.TeacherSignup)

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Auth routes
		v1.POST("/auth/change-password", hm.authHandler.ChangePassword)

		// Tenant routes - platform operators only
		tenants := v1.Group("/tenants")
		tenants.Use(requireRole(models.RoleSuperAdmin))
		{
			tenants.POST("", hm.tenantHandler.CreateTenant)
			tenants.GET("", hm.tenantHandler.ListTenants)
			tenants.GET("/:id", hm.tenantHandler.GetTenant)
			tenants.PUT("/:id", hm.tenantHandler.UpdateTenant)
			tenants.DELETE("/:id", hm.tenantHandler.DeleteTenant)
		}

		// Admin routes
		admins := v1.Group("/admins")
		{
			admins.POST("", requireRole(models.RoleSuperAdmin), hm.adminHandler.CreateAdmin)
			admins.GET("/me", requireRole(models.RoleAdmin), hm.adminHandler.GetMe)
			admins.GET("/me/dashboard", requireRole(models.RoleAdmin), hm.adminHandler.GetDashboard)
			admins.PUT("/:id", requireRole(models.RoleAdmin, models.RoleSuperAdmin), hm.adminHandler.UpdateAdmin)
			admins.DELETE("/:id", requireRole(models.RoleSuperAdmin), hm.adminHandler.DeleteAdmin)
			admins.POST("/notifications", requireRole(models.RoleAdmin, models.RoleSuperAdmin), hm.adminHandler.SendBulkNotification)
		}

		// Teacher routes
		teachers := v1.Group("/teachers")
		{
			teachers.POST("", requireRole(models.RoleAdmin), hm.teacherHandler.CreateTeacher)
			teachers.GET("", requireRole(models.RoleAdmin, models.RoleTeacher), hm.teacherHandler.ListTeachers)
			teachers.GET("/me", requireRole(models.RoleTeacher), hm.teacherHandler.GetMe)
			teachers.GET("/me/dashboard", requireRole(models.RoleTeacher), hm.teacherHandler.GetDashboard)
			teachers.GET("/:id", hm.teacherHandler.GetTeacher)
			teachers.GET("/:id/students", requireRole(models.RoleAdmin, models.RoleTeacher), hm.teacherHandler.GetTeacherStudents)
			teachers.PUT("/:id", requireRole(models.RoleAdmin, models.RoleTeacher), hm.teacherHandler.UpdateTeacher)
			teachers.DELETE("/:id", requireRole(models.RoleAdmin), hm.teacherHandler.DeleteTeacher)
		}

		// Student routes
		students := v1.Group("/students")
		{
			students.POST("", requireRole(models.RoleAdmin), hm.studentHandler.CreateStudent)
			students.GET("", requireRole(models.RoleAdmin, models.RoleTeacher), hm.studentHandler.ListStudents)
			students.GET("/me", requireRole(models.RoleStudent), hm.studentHandler.GetMe)
			students.GET("/me/courses", requireRole(models.RoleStudent), hm.studentHandler.GetMyCourses)
			students.GET("/me/dashboard", requireRole(models.RoleStudent), hm.studentHandler.GetDashboard)
			students.GET("/:id", hm.studentHandler.GetStudent)
			students.PUT("/:id", requireRole(models.RoleAdmin, models.RoleStudent), hm.studentHandler.UpdateStudent)
			students.DELETE("/:id", requireRole(models.RoleAdmin), hm.studentHandler.DeleteStudent)
		}

		// Course routes
		courses := v1.Group("/courses")
		{
			courses.POST("", requireRole(models.RoleAdmin, models.RoleTeacher), hm.courseHandler.CreateCourse)
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)
			courses.PUT("/:id", requireRole(models.RoleAdmin, models.RoleTeacher), hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", requireRole(models.RoleAdmin, models.RoleTeacher), hm.courseHandler.DeleteCourse)
			courses.POST("/:id/publish", requireRole(models.RoleAdmin, models.RoleTeacher), hm.courseHandler.PublishCourse)
			courses.POST("/:id/enroll", hm.courseHandler.EnrollStudent)
			courses.POST("/:id/unenroll", hm.courseHandler.UnenrollStudent)
			courses.POST("/:id/reassign-teacher", requireRole(models.RoleAdmin), hm.courseHandler.ReassignTeacher)
			courses.PUT("/:id/modules/reorder", requireRole(models.RoleAdmin, models.RoleTeacher), hm.courseHandler.ReorderModules)
			courses.PUT("/:id/modules/:moduleId/lessons/reorder", requireRole(models.RoleAdmin, models.RoleTeacher), hm.courseHandler.ReorderLessons)
			courses.GET("/:id/students", requireRole(models.RoleAdmin, models.RoleTeacher), hm.courseHandler.GetCourseStudents)
		}

		// Assignment routes
		assignments := v1.Group("/assignments")
		{
			assignments.POST("", requireRole(models.RoleAdmin, models.RoleTeacher), hm.assignmentHandler.CreateAssignment)
			assignments.GET("", hm.assignmentHandler.ListAssignments)
			assignments.GET("/:id", hm.assignmentHandler.GetAssignment)
			assignments.PUT("/:id", requireRole(models.RoleAdmin, models.RoleTeacher), hm.assignmentHandler.UpdateAssignment)
			assignments.DELETE("/:id", requireRole(models.RoleAdmin, models.RoleTeacher), hm.assignmentHandler.DeleteAssignment)
		}

		// Assignment submission routes
		submissions := v1.Group("/submissions")
		{
			submissions.POST("", requireRole(models.RoleStudent), hm.submissionHandler.SubmitAssignment)
			submissions.GET("", requireRole(models.RoleAdmin, models.RoleTeacher), hm.submissionHandler.ListSubmissions)
			submissions.GET("/me", requireRole(models.RoleStudent), hm.submissionHandler.ListMine)
			submissions.GET("/assignment/:assignment_id", requireRole(models.RoleAdmin, models.RoleTeacher), hm.submissionHandler.ListByAssignment)
			submissions.GET("/assignment/:assignment_id/export", requireRole(models.RoleAdmin, models.RoleTeacher), hm.submissionHandler.ExportGrades)
			submissions.GET("/:id", hm.submissionHandler.GetSubmission)
			submissions.POST("/:id/grade", requireRole(models.RoleAdmin, models.RoleTeacher), hm.submissionHandler.GradeSubmission)
			submissions.DELETE("/:id", hm.submissionHandler.DeleteSubmission)
		}

		// Quiz routes
		quizzes := v1.Group("/quizzes")
		{
			quizzes.POST("", requireRole(models.RoleAdmin, models.RoleTeacher), hm.quizHandler.CreateQuiz)
			quizzes.GET("", requireRole(models.RoleAdmin, models.RoleTeacher), hm.quizHandler.ListQuizzes)
			quizzes.GET("/student/me", requireRole(models.RoleStudent), hm.quizHandler.ListForStudent)
			quizzes.GET("/:id", requireRole(models.RoleAdmin, models.RoleTeacher), hm.quizHandler.GetQuiz)
			quizzes.PUT("/:id", requireRole(models.RoleAdmin, models.RoleTeacher), hm.quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", requireRole(models.RoleAdmin, models.RoleTeacher), hm.quizHandler.DeleteQuiz)
			quizzes.GET("/:id/has-submissions", requireRole(models.RoleAdmin, models.RoleTeacher), hm.quizHandler.HasSubmissions)
			quizzes.POST("/:id/submit", requireRole(models.RoleStudent), hm.quizHandler.SubmitQuiz)
			quizzes.GET("/:id/submissions", requireRole(models.RoleAdmin, models.RoleTeacher), hm.quizHandler.ListQuizSubmissions)
		}

		// Subscription routes
		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.POST("", requireRole(models.RoleSuperAdmin), hm.subscriptionHandler.CreateSubscription)
			subscriptions.GET("", requireRole(models.RoleSuperAdmin), hm.subscriptionHandler.ListSubscriptions)
			subscriptions.GET("/me", requireRole(models.RoleAdmin), hm.subscriptionHandler.GetMySubscription)
			subscriptions.GET("/tenant/:tenant_id", requireRole(models.RoleSuperAdmin), hm.subscriptionHandler.GetSubscription)
			subscriptions.PUT("/tenant/:tenant_id", requireRole(models.RoleSuperAdmin), hm.subscriptionHandler.UpdateSubscription)
			subscriptions.DELETE("/tenant/:tenant_id", requireRole(models.RoleSuperAdmin), hm.subscriptionHandler.DeleteSubscription)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "school-service",
		})
	})
}
