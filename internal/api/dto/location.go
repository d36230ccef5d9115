package dto

type LocationResponse struct {
	ID     string  `json:"id"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Weight float64 `json:"weight"`
}

type LocationSetResponse struct {
	SetID     string             `json:"set_id"`
	Name      string             `json:"name"`
	Locations []LocationResponse `json:"locations"`
}

type ListLocationSetsResponse struct {
	Sets []LocationSetResponse `json:"sets"`
}

type CreateLocationSetRequest struct {
	Name      string          `json:"name"`
	Locations []LocationInput `json:"locations"`
}
