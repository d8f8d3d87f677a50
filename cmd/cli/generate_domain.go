package main

// generate-domain scaffolds domain/<name> with the dto, repository, service, controller and
// factory files every domain package carries. The model and the SetupCoreDomain wiring are
// left to the developer; the command prints both steps.

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const domainDir = "domain"

var domainNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

type domainNames struct {
	Package string
	Title   string
	Lower   string
}

func newDomainNames(name string) domainNames {
	title := cases.Title(language.English).String(name)
	return domainNames{
		Package: name,
		Title:   title,
		Lower:   strings.ToLower(title[:1]) + title[1:],
	}
}

func GenerateDomain() {
	fmt.Println("Enter the name of your domain please: ")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Scan()

	name := strings.TrimSpace(scanner.Text())

	files, err := generateDomain(domainDir, name)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	names := newDomainNames(name)
	fmt.Println("Domain", name, "created:", strings.Join(files, ", "))
	fmt.Println("  ===> Next steps:")
	fmt.Printf("   1) Create models.%s in internal/models/ and add it to ModelRegistry\n", names.Title)
	fmt.Println("   2) Add SQL migrations under migrations/postgres and migrations/sqlite")
	fmt.Println("   3) Mount the controller in domain/main.go's SetupCoreDomain:")
	fmt.Printf("      %[1]sFactory := %[1]s.New%[2]sServiceFactory(appConfig.DB, appConfig.Logger, limiters)\n", name, names.Title)
	fmt.Printf("      rs.MountController(%[1]sFactory.CreateController(%[1]sFactory.CreateService()))\n", name)
}

// generateDomain writes the scaffold under root/name and returns the file names it created.
func generateDomain(root, name string) ([]string, error) {
	if !domainNamePattern.MatchString(name) {
		return nil, fmt.Errorf("invalid domain name %q: use lowercase letters and digits", name)
	}

	domainPath := filepath.Join(root, name)
	if _, err := os.Stat(domainPath); err == nil {
		return nil, fmt.Errorf("domain %s already exists", name)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := os.MkdirAll(domainPath, 0o755); err != nil {
		return nil, fmt.Errorf("create domain directory: %w", err)
	}

	names := newDomainNames(name)
	created := make([]string, 0, len(scaffoldFiles))

	for _, file := range scaffoldFiles {
		var buf bytes.Buffer
		if err := file.tmpl.Execute(&buf, names); err != nil {
			return created, fmt.Errorf("render %s: %w", file.name, err)
		}

		src, err := format.Source(buf.Bytes())
		if err != nil {
			return created, fmt.Errorf("format %s: %w", file.name, err)
		}

		if err := os.WriteFile(filepath.Join(domainPath, file.name), src, 0o644); err != nil {
			return created, fmt.Errorf("write %s: %w", file.name, err)
		}
		created = append(created, file.name)
	}

	return created, nil
}

type scaffoldFile struct {
	name string
	tmpl *template.Template
}

func scaffold(name, body string) scaffoldFile {
	return scaffoldFile{name: name, tmpl: template.Must(template.New(name).Parse(body))}
}

var scaffoldFiles = []scaffoldFile{
	scaffold("dto.go", dtoTemplate),
	scaffold("repository.go", repositoryTemplate),
	scaffold("service.go", serviceTemplate),
	scaffold("controller.go", controllerTemplate),
	scaffold("factory.go", factoryTemplate),
}

const dtoTemplate = `package {{.Package}}

import (
	"github.com/akeren/tablebook/internal/models"
	"github.com/akeren/tablebook/pkg/constants"
)

type Create{{.Title}}Request struct {
	// Add request fields with binding tags, e.g. Name string ` + "`json:\"name\" binding:\"required\"`" + `
}

type {{.Title}}Response struct {
	ID        uint   ` + "`json:\"id\"`" + `
	CreatedAt string ` + "`json:\"created_at\"`" + `
}

func To{{.Title}}Model(req *Create{{.Title}}Request) *models.{{.Title}} {
	if req == nil {
		return nil
	}
	return &models.{{.Title}}{}
}

func To{{.Title}}Response(model *models.{{.Title}}) {{.Title}}Response {
	if model == nil {
		return {{.Title}}Response{}
	}
	return {{.Title}}Response{
		ID:        model.ID,
		CreatedAt: model.CreatedAt.Format(constants.RFC3339DateTimeFormat),
	}
}
`

const repositoryTemplate = `package {{.Package}}

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package={{.Package}}

import (
	"context"

	"github.com/akeren/tablebook/internal/models"
	apperrors "github.com/akeren/tablebook/pkg/errors"
	"gorm.io/gorm"
)

type {{.Title}}Repository interface {
	Create(ctx context.Context, entry *models.{{.Title}}) (*models.{{.Title}}, error)
}

type {{.Lower}}Repository struct {
	db *gorm.DB
}

func New{{.Title}}Repository(db *gorm.DB) {{.Title}}Repository {
	return &{{.Lower}}Repository{db: db}
}

func (r *{{.Lower}}Repository) Create(ctx context.Context, entry *models.{{.Title}}) (*models.{{.Title}}, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to create {{.Package}}", err)
	}
	return entry, nil
}
`

const serviceTemplate = `package {{.Package}}

import (
	"context"

	"github.com/akeren/tablebook/internal/log"
	apperrors "github.com/akeren/tablebook/pkg/errors"
)

type {{.Title}}Service interface {
	Create(ctx context.Context, req *Create{{.Title}}Request) (*{{.Title}}Response, error)
}

type {{.Lower}}Service struct {
	logger     *log.Logger
	repository {{.Title}}Repository
}

func New{{.Title}}Service(logger *log.Logger, repository {{.Title}}Repository) {{.Title}}Service {
	return &{{.Lower}}Service{logger: logger, repository: repository}
}

func (s *{{.Lower}}Service) Create(ctx context.Context, req *Create{{.Title}}Request) (*{{.Title}}Response, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("Create received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	entry, err := s.repository.Create(ctx, To{{.Title}}Model(req))
	if err != nil {
		logger.Error("Failed to create {{.Package}}", "error", err)
		return nil, err
	}

	response := To{{.Title}}Response(entry)
	return &response, nil
}
`

const controllerTemplate = `package {{.Package}}

import (
	"time"

	"github.com/akeren/tablebook/config/router"
	"github.com/akeren/tablebook/pkg/factory"
)

const createRequestsPerMinute = 30

func New{{.Title}}Controller(service {{.Title}}Service, limiters factory.RateLimiterFactory) *router.RESTController {
	return router.NewVersionedRESTController(
		"{{.Title}}Controller",
		"v1",
		"/{{.Package}}",
		func(rs *router.RouterService, c *router.RESTController) {
			createLimiter := limiters.CreateRateLimiter(createRequestsPerMinute, time.Minute)

			rs.AddPostHandler(c, createLimiter, "", create{{.Title}}Handler(service))
		},
	)
}

func create{{.Title}}Handler(service {{.Title}}Service) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		var req Create{{.Title}}Request
		if err := ctx.ShouldBindJSON(&req); err != nil {
			router.GetLogger(ctx).Error("Failed to bind request", "error", err)
			return router.BindingErrorResult(err, &req)
		}

		response, err := service.Create(ctx.Request.Context(), &req)
		if err != nil {
			return router.AppErrorResult(err)
		}

		return router.CreatedResult(response, "{{.Title}}")
	}
}
`

const factoryTemplate = `package {{.Package}}

import (
	"github.com/akeren/tablebook/config/router"
	"github.com/akeren/tablebook/internal/log"
	"github.com/akeren/tablebook/pkg/factory"
	"gorm.io/gorm"
)

type {{.Title}}ServiceFactory interface {
	CreateService() {{.Title}}Service
	CreateController(service {{.Title}}Service) *router.RESTController
}

type Default{{.Title}}ServiceFactory struct {
	db       *gorm.DB
	logger   *log.Logger
	limiters factory.RateLimiterFactory
}

func New{{.Title}}ServiceFactory(db *gorm.DB, logger *log.Logger, limiters factory.RateLimiterFactory) {{.Title}}ServiceFactory {
	return &Default{{.Title}}ServiceFactory{db: db, logger: logger, limiters: limiters}
}

func (f *Default{{.Title}}ServiceFactory) CreateService() {{.Title}}Service {
	return New{{.Title}}Service(f.logger, New{{.Title}}Repository(f.db))
}

func (f *Default{{.Title}}ServiceFactory) CreateController(service {{.Title}}Service) *router.RESTController {
	return New{{.Title}}Controller(service, f.limiters)
}
`
