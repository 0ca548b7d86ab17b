package endpoint

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/featurekit/di"
	"github.com/kbukum/featurekit/errors"
)

// Features lists every registration in the container.
func Features(container di.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		if container == nil {
			RespondOK(c, []di.RegistrationInfo{})
			return
		}
		RespondOK(c, container.Registrations())
	}
}

// Feature describes the registration named by the :name path parameter.
// It never triggers a build.
func Feature(container di.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		if container != nil {
			if info, ok := container.Registration(name); ok {
				RespondOK(c, info)
				return
			}
		}
		RespondWithError(c, errors.NotFound("feature", name))
	}
}
