package services

import (
	"context"

	"github.com/opendatato/opendatato/data"
	"github.com/opendatato/opendatato/portal"
)

// this type encodes a JSON object for responding to root queries
type ServiceInfoResponse struct {
	Name          string `json:"name" example:"Open Data Portal Client" doc:"The name of the service API"`
	Version       string `json:"version" example:"1.0.0" doc:"The version string (major.minor.patch)"`
	Portal        string `json:"portal" example:"Open Data Toronto" doc:"The name of the portal being served"`
	Website       string `json:"website" example:"https://open.toronto.ca" doc:"The portal's public web site"`
	Uptime        int    `json:"uptime" example:"345600" doc:"The time the service has been up (seconds)"`
	Documentation string `json:"documentation" example:"/docs" doc:"The OpenAPI documentation endpoint"`
}

// a response holding a list of packages (GET)
type PackagesResponse struct {
	// the search query, if any
	Query string `json:"query,omitempty" example:"subway" doc:"the given title query"`
	// matching packages
	Packages []portal.Package `json:"packages" doc:"an array of package metadata records"`
}

// a response holding a resource's decoded payload (GET)
type ResourceDataResponse struct {
	// the resource's identifier
	Id string `json:"id" doc:"the resource's identifier"`
	// the payload's kind ("frame", "lines", "tree", "workbook", "members")
	Kind string `json:"kind" example:"frame" doc:"the kind of the decoded payload"`
	// the decoded payload
	Value data.Value `json:"value" doc:"the decoded payload"`
}

// PortalService defines the interface for our open data portal service.
type PortalService interface {
	// Starts the service on the selected port, returning an error that indicates
	// success or failure.
	Start(port int) error
	// Gracefully shuts down the service without interrupting active connections.
	Shutdown(ctx context.Context) error
	// Closes down the service, freeing all resources.
	Close()
}
