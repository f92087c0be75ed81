package http

import "github.com/gin-gonic/gin"

func Register(r gin.IRouter, store Store) {
	h := NewHandler(store)
	r.POST("/projects", h.create)
	r.GET("/projects", h.list)
	r.PUT("/projects/:id", h.update)
	r.DELETE("/projects/:id", h.delete)
}
