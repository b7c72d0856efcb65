package dto

type VillageResponse struct {
	VillageID int     `json:"village_id"`
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

type ListVillagesResponse struct {
	Villages []VillageResponse `json:"villages"`
}
