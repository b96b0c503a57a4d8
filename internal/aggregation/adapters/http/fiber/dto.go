package fiber

type AggregateRequest struct {
	DtFrom    string `json:"dt_from" example:"2022-09-01T00:00:00"`
	DtUpto    string `json:"dt_upto" example:"2022-12-31T23:59:00"`
	GroupType string `json:"group_type" example:"month" enums:"hour,day,month"`
}

type AggregateResponse struct {
	Dataset []int64  `json:"dataset" example:"5906586,5515874,5889803,6092634"`
	Labels  []string `json:"labels" example:"2022-09-01T00:00:00,2022-10-01T00:00:00,2022-11-01T00:00:00,2022-12-01T00:00:00"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
