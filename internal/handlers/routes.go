package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public auth routes and the token-protected API on r.
func (h *Handler) RegisterRoutes(r gin.IRouter, auth gin.HandlerFunc) {
	r.POST("/signin", h.SignIn)
	r.POST("/signup", h.SignUp)

	api := r.Group("/")
	api.Use(auth)
	{
		api.GET("/profile", h.GetProfile)
		api.PUT("/profile", h.UpdateProfile)
		api.PUT("/change-password", h.ChangePassword)

		api.POST("/create-bill", h.CreateBill)
		api.GET("/bills", h.ListBills)
		api.DELETE("/bills/:id", h.DeleteBill)
		api.GET("/billdetails/:id", h.GetBill)
		api.PUT("/billdetails/:id", h.UpdateBill)
		api.GET("/billdetails/:id/statement", h.GetBillStatement)

		api.POST("/classify-note", h.ClassifyNote)
	}
}
