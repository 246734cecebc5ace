package handler

import "github.com/gin-gonic/gin"

// Liveness answers the root path so load balancers and uptime checks get a
// cheap 200 without touching the database.
func Liveness(c *gin.Context) {
	c.String(200, "Backend funcionando")
}
