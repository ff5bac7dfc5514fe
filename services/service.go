package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humamux"
	"github.com/gorilla/mux"
	"golang.org/x/net/netutil"

	"github.com/opendatato/opendatato/config"
	"github.com/opendatato/opendatato/opendata"
	"github.com/opendatato/opendatato/portal"
)

// Version numbers
var majorVersion = 0
var minorVersion = 1
var patchVersion = 0

// Version string
var version = fmt.Sprintf("%d.%d.%d", majorVersion, minorVersion, patchVersion)

// This type implements the PortalService interface, exposing an open data
// portal's packages and decoded resources as JSON.
type portalService struct {
	// name of the service
	Name string
	// service version identifier
	Version string
	// time which the service was started
	StartTime time.Time
	// port on which the service currently runs
	Port int
	// router for REST endpoints
	Router *mux.Router
	// API wrapper
	API huma.API
	// HTTP server.
	Server *http.Server
	// the portal client serving each request
	Client *opendata.Client
}

// converts an error from the portal client into an HTTP error with an
// appropriate status code
func httpError(err error) error {
	var lookupErr *portal.LookupError
	var unsupportedErr *portal.UnsupportedFormatError
	var extractionErr *portal.ExtractionError
	var decodeErr *portal.DecodeError
	var remoteErr *portal.RemoteServiceError
	switch {
	case errors.As(err, &lookupErr):
		return huma.Error404NotFound(err.Error())
	case errors.As(err, &unsupportedErr), errors.As(err, &extractionErr),
		errors.As(err, &decodeErr):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.As(err, &remoteErr):
		return huma.Error502BadGateway(err.Error())
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}

type ServiceInfoOutput struct {
	Body ServiceInfoResponse `doc:"information about the service itself"`
}

// handler method for root
func (service *portalService) getRoot(ctx context.Context,
	input *struct{}) (*ServiceInfoOutput, error) {

	slog.Info("Querying root endpoint...")
	return &ServiceInfoOutput{
		Body: ServiceInfoResponse{
			Name:          service.Name,
			Version:       service.Version,
			Portal:        config.Portal.Name,
			Website:       config.Portal.WebsiteURL(),
			Uptime:        int(service.uptime()),
			Documentation: "/docs",
		},
	}, nil
}

type PackagesOutput struct {
	Body PackagesResponse `doc:"A list of packages"`
}

// handler method for listing packages
func (service *portalService) listPackages(ctx context.Context,
	input *struct {
		Limit int `query:"limit" default:"10" minimum:"1" maximum:"1000" doc:"the maximum number of packages returned"`
	}) (*PackagesOutput, error) {

	slog.Info(fmt.Sprintf("Listing up to %d packages...", input.Limit))
	packages, err := service.Client.ListPackages(ctx, input.Limit)
	if err != nil {
		return nil, httpError(err)
	}
	return &PackagesOutput{
		Body: PackagesResponse{Packages: packages},
	}, nil
}

// handler method for searching packages by title
func (service *portalService) searchPackages(ctx context.Context,
	input *struct {
		Query string `query:"q" required:"true" example:"subway" doc:"text matched against package titles"`
		Limit int    `query:"limit" default:"10" minimum:"1" maximum:"1000" doc:"the maximum number of packages returned"`
	}) (*PackagesOutput, error) {

	slog.Info(fmt.Sprintf("Searching packages for '%s'...", input.Query))
	packages, err := service.Client.SearchPackages(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, httpError(err)
	}
	if packages == nil {
		packages = make([]portal.Package, 0)
	}
	return &PackagesOutput{
		Body: PackagesResponse{Query: input.Query, Packages: packages},
	}, nil
}

type PackageOutput struct {
	Body portal.Package `doc:"Metadata for the requested package"`
}

// handler method for fetching a package's metadata
func (service *portalService) getPackage(ctx context.Context,
	input *struct {
		Id        string `path:"id" example:"ttc-subway-shapefiles" doc:"the package's identifier"`
		Resources bool   `query:"resources" default:"true" doc:"if true, include the package's resources"`
	}) (*PackageOutput, error) {

	slog.Info(fmt.Sprintf("Querying package %s...", input.Id))
	pkg, err := service.Client.PackageMetadata(ctx, input.Id, input.Resources)
	if err != nil {
		return nil, httpError(err)
	}
	return &PackageOutput{Body: pkg}, nil
}

type DataPackageOutput struct {
	Body map[string]any `doc:"A Frictionless data package describing the requested package"`
}

// handler method for describing a package as a Frictionless data package
func (service *portalService) getDataPackage(ctx context.Context,
	input *struct {
		Id string `path:"id" example:"ttc-subway-shapefiles" doc:"the package's identifier"`
	}) (*DataPackageOutput, error) {

	slog.Info(fmt.Sprintf("Describing package %s...", input.Id))
	dp, err := service.Client.DataPackage(ctx, input.Id)
	if err != nil {
		return nil, httpError(err)
	}
	return &DataPackageOutput{Body: dp.Descriptor()}, nil
}

type ResourceOutput struct {
	Body portal.Resource `doc:"Metadata for the requested resource"`
}

// handler method for fetching a resource's metadata
func (service *portalService) getResource(ctx context.Context,
	input *struct {
		Id string `path:"id" example:"c01c6d71-de1f-493d-91ba-364ce64884ac" doc:"the resource's identifier"`
	}) (*ResourceOutput, error) {

	slog.Info(fmt.Sprintf("Querying resource %s...", input.Id))
	resource, err := service.Client.ResourceMetadata(ctx, input.Id)
	if err != nil {
		return nil, httpError(err)
	}
	return &ResourceOutput{Body: resource}, nil
}

type ResourceDataOutput struct {
	Body ResourceDataResponse `doc:"The requested resource's decoded payload"`
}

// handler method for retrieving a resource's payload
func (service *portalService) getResourceData(ctx context.Context,
	input *struct {
		Id string `path:"id" example:"c01c6d71-de1f-493d-91ba-364ce64884ac" doc:"the resource's identifier"`
	}) (*ResourceDataOutput, error) {

	slog.Info(fmt.Sprintf("Retrieving resource %s...", input.Id))
	value, err := service.Client.Resource(ctx, input.Id)
	if err != nil {
		return nil, httpError(err)
	}
	return &ResourceDataOutput{
		Body: ResourceDataResponse{
			Id:    input.Id,
			Kind:  value.Kind(),
			Value: value,
		},
	}, nil
}

// returns the uptime for the service in seconds
func (service *portalService) uptime() float64 {
	return time.Since(service.StartTime).Seconds()
}

// constructs a portal service that serves requests with the given client
func NewPortalService(client *opendata.Client) (PortalService, error) {
	if client == nil {
		return nil, fmt.Errorf("No portal client was given.")
	}

	service := new(portalService)
	service.Name = "Open Data Portal Client"
	service.Version = version
	service.Port = -1
	service.StartTime = time.Now()
	service.Client = client

	// set up routing
	service.Router = mux.NewRouter()
	service.API = humamux.New(service.Router, huma.DefaultConfig(service.Name, service.Version))
	huma.Get(service.API, "/", service.getRoot)

	// API v1
	huma.Get(service.API, "/api/v1/packages", service.listPackages)
	huma.Get(service.API, "/api/v1/packages/search", service.searchPackages)
	huma.Get(service.API, "/api/v1/packages/{id}", service.getPackage)
	huma.Get(service.API, "/api/v1/packages/{id}/datapackage", service.getDataPackage)
	huma.Get(service.API, "/api/v1/resources/{id}", service.getResource)
	huma.Get(service.API, "/api/v1/resources/{id}/data", service.getResourceData)

	return service, nil
}

// starts the portal service
func (service *portalService) Start(port int) error {
	slog.Info(fmt.Sprintf("Starting %s service on port %d...", service.Name, port))
	slog.Info(fmt.Sprintf("(Accepting up to %d connections)", config.Service.MaxConnections))

	service.StartTime = time.Now()

	// create a listener that limits the number of incoming connections
	service.Port = port
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		return err
	}
	defer listener.Close()
	listener = netutil.LimitListener(listener, config.Service.MaxConnections)

	// start the server
	service.Server = &http.Server{
		Handler: service.Router}
	err = service.Server.Serve(listener)

	// we don't report the server closing as an error
	if err != http.ErrServerClosed {
		return err
	}
	return nil
}

// gracefully shuts down the service without interrupting active connections
func (service *portalService) Shutdown(ctx context.Context) error {
	if service.Server != nil {
		return service.Server.Shutdown(ctx)
	}
	return nil
}

// closes down the service abruptly, freeing all resources
func (service *portalService) Close() {
	if service.Server != nil {
		service.Server.Close()
	}
}
