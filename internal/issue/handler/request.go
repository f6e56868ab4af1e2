package handler

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gogotex/issuetracker/internal/issue/service"
	"github.com/gogotex/issuetracker/pkg/logger"
)

const maxBodyBytes = 1 << 20

type createRequest struct {
	IssueTitle string  `json:"issue_title" form:"issue_title"`
	IssueText  string  `json:"issue_text" form:"issue_text"`
	CreatedBy  string  `json:"created_by" form:"created_by"`
	AssignedTo string  `json:"assigned_to" form:"assigned_to"`
	StatusText string  `json:"status_text" form:"status_text"`
	Open       optBool `json:"open" form:"open"`
}

func (r createRequest) input() service.CreateInput {
	return service.CreateInput{
		IssueTitle: r.IssueTitle,
		IssueText:  r.IssueText,
		CreatedBy:  r.CreatedBy,
		AssignedTo: r.AssignedTo,
		StatusText: r.StatusText,
		Open:       r.Open.ptr(),
	}
}

type updateRequest struct {
	ID         string  `json:"_id" form:"_id"`
	IssueTitle *string `json:"issue_title" form:"issue_title"`
	IssueText  *string `json:"issue_text" form:"issue_text"`
	CreatedBy  *string `json:"created_by" form:"created_by"`
	AssignedTo *string `json:"assigned_to" form:"assigned_to"`
	StatusText *string `json:"status_text" form:"status_text"`
	Open       optBool `json:"open" form:"open"`
}

func (r updateRequest) input() service.UpdateInput {
	return service.UpdateInput{
		ID:         r.ID,
		IssueTitle: r.IssueTitle,
		IssueText:  r.IssueText,
		CreatedBy:  r.CreatedBy,
		AssignedTo: r.AssignedTo,
		StatusText: r.StatusText,
		Open:       r.Open.ptr(),
	}
}

type deleteRequest struct {
	ID string `json:"_id" form:"_id"`
}

// optBool is an "open" flag that may be absent. It accepts a JSON boolean or
// the strings "true"/"false"; any other value counts as absent.
type optBool struct {
	set, val bool
}

func (b *optBool) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	return b.UnmarshalParam(s)
}

// UnmarshalParam implements binding.BindUnmarshaler for form bodies.
func (b *optBool) UnmarshalParam(param string) error {
	switch strings.ToLower(strings.TrimSpace(param)) {
	case "true":
		*b = optBool{set: true, val: true}
	case "false":
		*b = optBool{set: true, val: false}
	default:
		*b = optBool{}
	}
	return nil
}

func (b optBool) ptr() *bool {
	if !b.set {
		return nil
	}
	v := b.val
	return &v
}

// formBody binds an urlencoded body for any method. net/http only reads the
// body into PostForm for POST, PUT and PATCH, so gin's Form binding misses DELETE.
var formBody binding.Binding = formBodyBinding{}

type formBodyBinding struct{}

func (formBodyBinding) Name() string { return "form-urlencoded-body" }

func (formBodyBinding) Bind(req *http.Request, obj any) error {
	if req.Body == nil {
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(req.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return err
	}
	return binding.MapFormWithTag(obj, values, "form")
}

// bindBody decodes a JSON, urlencoded or multipart body into T. A body that
// cannot be decoded yields the zero request, so validation reports what is missing.
func bindBody[T any](c *gin.Context) T {
	var req T
	var err error
	switch c.ContentType() {
	case binding.MIMEPOSTForm:
		err = c.ShouldBindWith(&req, formBody)
	case binding.MIMEMultipartPOSTForm:
		err = c.ShouldBindWith(&req, binding.FormMultipart)
	default:
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		logger.Debugf("bind %s body: %v", c.Request.Method, err)
		var zero T
		return zero
	}
	return req
}
