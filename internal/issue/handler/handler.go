package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/issuetracker/internal/issue/service"
	"github.com/gogotex/issuetracker/pkg/metrics"
)

// RegisterIssueRoutes mounts the issue API. Every response is 200; failures
// carry an "error" key in the body.
func RegisterIssueRoutes(r gin.IRouter, svc *service.Service) {
	g := r.Group("/api/issues/:project")

	g.POST("", func(c *gin.Context) {
		req := bindBody[createRequest](c)
		is, err := svc.Create(c.Request.Context(), c.Param("project"), req.input())
		if err != nil {
			fail(c, "create", err, gin.H{})
			return
		}
		record("create", nil)
		c.JSON(http.StatusOK, is)
	})

	g.GET("", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), c.Param("project"), c.Request.URL.Query())
		if err != nil {
			fail(c, "list", err, gin.H{})
			return
		}
		record("list", nil)
		c.JSON(http.StatusOK, list)
	})

	g.PUT("", func(c *gin.Context) {
		in := bindBody[updateRequest](c).input()
		if err := svc.Update(c.Request.Context(), c.Param("project"), in); err != nil {
			fail(c, "update", err, gin.H{"_id": in.ID})
			return
		}
		record("update", nil)
		c.JSON(http.StatusOK, gin.H{"result": "successfully updated", "_id": in.ID})
	})

	g.DELETE("", func(c *gin.Context) {
		id := bindBody[deleteRequest](c).ID
		if err := svc.Delete(c.Request.Context(), c.Param("project"), id); err != nil {
			fail(c, "delete", err, gin.H{"_id": id})
			return
		}
		record("delete", nil)
		c.JSON(http.StatusOK, gin.H{"result": "successfully deleted", "_id": id})
	})
}

// opErrors is the message sent when an operation fails for a reason the
// service did not classify.
var opErrors = map[string]error{
	"create": service.ErrCouldNotCreate,
	"list":   service.ErrCouldNotFetch,
	"update": service.ErrCouldNotUpdate,
	"delete": service.ErrCouldNotDelete,
}

var contractErrors = []error{
	service.ErrRequiredFieldsMissing,
	service.ErrMissingID,
	service.ErrNoUpdateFields,
	service.ErrCouldNotCreate,
	service.ErrCouldNotUpdate,
	service.ErrCouldNotDelete,
	service.ErrCouldNotFetch,
}

var validationErrors = []error{
	service.ErrRequiredFieldsMissing,
	service.ErrMissingID,
	service.ErrNoUpdateFields,
}

// fail writes the fixed message for err. idBody supplies the "_id" echo,
// which is only sent once the store was asked.
func fail(c *gin.Context, op string, err error, idBody gin.H) {
	record(op, err)
	body := gin.H{"error": opErrors[op].Error()}
	for _, e := range contractErrors {
		if errors.Is(err, e) {
			body["error"] = e.Error()
			break
		}
	}
	if !isValidation(err) {
		for k, v := range idBody {
			body[k] = v
		}
	}
	c.JSON(http.StatusOK, body)
}

func isValidation(err error) bool {
	for _, e := range validationErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func record(op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case isValidation(err):
		outcome = "rejected"
	default:
		outcome = "failed"
	}
	metrics.IssueOperations.WithLabelValues(op, outcome).Inc()
}
