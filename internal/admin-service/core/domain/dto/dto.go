package dto

type CreateRouteRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

type CreatePickupPointRequest struct {
	RouteID string   `json:"routeId" validate:"required,min=3"`
	Name    string   `json:"name" validate:"required,min=1"`
	Lat     *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng     *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
	Order   *int     `json:"order" validate:"required,gte=0"`
}

type CreateBusRequest struct {
	Code    string `json:"code" validate:"required,min=1"`
	RouteID string `json:"routeId" validate:"omitempty,min=3"`
}

type AssignDriverRequest struct {
	DriverUserID string `json:"driverUserId" validate:"required,min=3"`
	BusID        string `json:"busId" validate:"required,min=3"`
}

type CreateStudentRequest struct {
	Name          string `json:"name" validate:"required,min=1"`
	ParentUserID  string `json:"parentUserId" validate:"required,min=3"`
	BusID         string `json:"busId" validate:"required,min=3"`
	PickupPointID string `json:"pickupPointId" validate:"required,min=3"`
}
