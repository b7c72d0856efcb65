package dto

type VehicleResponse struct {
	VehicleID int     `json:"vehicle_id"`
	Name      string  `json:"name"`
	Status    string  `json:"status"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}
