package schema

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/cmsbench/internal/common/logging"
)

const (
	OperationCreate = "create"
	OperationUpdate = "update"
)

// RemoteContentType is the content-type builder's request format.
type RemoteContentType struct {
	Name           string               `json:"name"`
	Kind           string               `json:"kind"`
	Connection     string               `json:"connection"`
	CollectionName string               `json:"collectionName"`
	Attributes     map[string]Attribute `json:"attributes"`
}

type ContentTypeRequest struct {
	ContentType RemoteContentType `json:"contentType"`
}

// Step is one call to the content-type builder. Uid is only set for updates.
type Step struct {
	Operation string
	Uid       string
	Request   ContentTypeRequest
}

func (s Step) String() string {
	if s.Operation == OperationUpdate {
		return fmt.Sprintf("%s %s", s.Operation, s.Uid)
	}
	return fmt.Sprintf("%s %s", s.Operation, s.Request.ContentType.Name)
}

func remoteCollection(name, collectionName string, attributes map[string]Attribute) ContentTypeRequest {
	return ContentTypeRequest{ContentType: RemoteContentType{
		Name:           name,
		Kind:           "collectionType",
		Connection:     "default",
		CollectionName: collectionName,
		Attributes:     attributes,
	}}
}

func applicationUid(name string) string {
	return fmt.Sprintf("application::%s.%s", name, name)
}

func authorAttributes() map[string]Attribute {
	return map[string]Attribute{
		"name":    {Type: "string", Required: true},
		"email":   {Type: "email", Required: true, Unique: true},
		"bio":     {Type: "text"},
		"twitter": {Type: "string"},
	}
}

func tagAttributes() map[string]Attribute {
	return map[string]Attribute{
		"name": {Type: "string", Required: true, Unique: true},
	}
}

// BootstrapSteps returns the calls that set up the blog content types on a running backend: create
// article, then add the reverse relations to author and tag. Author and tag are only created when
// includeBaseTypes is set, since most backends already have them.
func BootstrapSteps(includeBaseTypes bool) []Step {
	var steps []Step
	if includeBaseTypes {
		steps = append(steps,
			Step{Operation: OperationCreate, Request: remoteCollection("author", "authors", authorAttributes())},
			Step{Operation: OperationCreate, Request: remoteCollection("tag", "tags", tagAttributes())},
		)
	}

	article := remoteCollection("article", "articles", map[string]Attribute{
		"title":        {Type: "string", Required: true},
		"content":      {Type: "richtext", Required: true},
		"excerpt":      {Type: "text"},
		"publish_date": {Type: "date"},
		"author":       {Model: "author"},
		"tags":         {Collection: "tag"},
	})

	author := authorAttributes()
	author["articles"] = Attribute{Collection: "article", Via: "author"}
	tag := tagAttributes()
	tag["articles"] = Attribute{Collection: "article", Via: "tags"}

	return append(steps,
		Step{Operation: OperationCreate, Request: article},
		Step{Operation: OperationUpdate, Uid: applicationUid("author"), Request: remoteCollection("author", "authors", author)},
		Step{Operation: OperationUpdate, Uid: applicationUid("tag"), Request: remoteCollection("tag", "tags", tag)},
	)
}

type ContentTypeWriter interface {
	CreateContentType(ctx context.Context, name string, definition interface{}) error
	UpdateContentType(ctx context.Context, uid string, definition interface{}) error
}

type StepResult struct {
	Step Step
	Err  error
}

type BootstrapResult struct {
	Steps []StepResult
}

func (r *BootstrapResult) Failed() []StepResult {
	var failed []StepResult
	for _, s := range r.Steps {
		if s.Err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}

type Bootstrapper struct {
	writer ContentTypeWriter
}

func NewBootstrapper(writer ContentTypeWriter) *Bootstrapper {
	return &Bootstrapper{writer: writer}
}

// Run executes every step in order. A failed step is logged and does not stop later steps;
// the returned error aggregates all failures.
func (b *Bootstrapper) Run(ctx context.Context, steps []Step) (*BootstrapResult, error) {
	result := &BootstrapResult{}
	var errs *multierror.Error
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, errors.WithStack(err))
			break
		}
		log.Infof("Running %s...", step)
		var err error
		switch step.Operation {
		case OperationCreate:
			err = b.writer.CreateContentType(ctx, step.Request.ContentType.Name, step.Request)
		case OperationUpdate:
			err = b.writer.UpdateContentType(ctx, step.Uid, step.Request)
		default:
			err = errors.Errorf("unknown operation %q", step.Operation)
		}
		result.Steps = append(result.Steps, StepResult{Step: step, Err: err})
		if err != nil {
			logging.WithStacktrace(log.NewEntry(log.StandardLogger()), err).Errorf("Error running %s", step)
			errs = multierror.Append(errs, err)
			continue
		}
		log.Infof("Completed %s", step)
	}
	if errs.ErrorOrNil() == nil {
		log.Info("All content types created successfully!")
	}
	return result, errs.ErrorOrNil()
}
