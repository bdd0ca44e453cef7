package controllers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	helper "github.com/salcc/iGo/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	log            *zap.Logger
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	return &routingAPI{
		routingService: routingService,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/computeRoutes", api.shortestPath)
	group.GET("/nearest", api.nearest)
}

// shortestPath. GET /api/computeRoutes?origin_lat=&origin_lon=&destination_lat=&destination_lon=
// a missing route is still a 200, with found=false and the reason.
func (api *routingAPI) shortestPath(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request shortestPathRequest
		err     error
	)

	query := r.URL.Query()

	if request.OriginLat, err = parseFloatParam(query.Get("origin_lat"), "origin_lat"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.OriginLon, err = parseFloatParam(query.Get("origin_lon"), "origin_lon"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.DestinationLat, err = parseFloatParam(query.Get("destination_lat"), "destination_lat"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.DestinationLon, err = parseFloatParam(query.Get("destination_lon"), "destination_lon"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	route, err := api.routingService.ShortestPath(r.Context(), request.OriginLat, request.OriginLon,
		request.DestinationLat, request.DestinationLon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewShortestPathResponse(route)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// nearest. GET /api/nearest?lat=&lon=
func (api *routingAPI) nearest(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearestRequest
		err     error
	)

	query := r.URL.Query()
	if request.Lat, err = parseFloatParam(query.Get("lat"), "lat"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.Lon, err = parseFloatParam(query.Get("lon"), "lon"); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	c, err := api.routingService.NearestIntersection(request.Lat, request.Lon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": nearestResponse{Lat: c.Lat, Lon: c.Lon}}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
