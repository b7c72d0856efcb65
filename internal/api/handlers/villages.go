package handlers

import (
	"net/http"

	"village-route-service/internal/api/dto"
	"village-route-service/internal/ports"
)

// VillageHandler exposes read-only village retrieval endpoints.
type VillageHandler struct {
	Repo ports.VillageRepository
}

func (h *VillageHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	villages, err := h.Repo.ListVillages(r.Context())
	if err != nil {
		writeServiceError(w, r, "list villages", err)
		return
	}

	res := dto.ListVillagesResponse{
		Villages: make([]dto.VillageResponse, 0, len(villages)),
	}
	for _, v := range villages {
		res.Villages = append(res.Villages, dto.VillageResponse{
			VillageID: v.ID,
			Name:      v.Name,
			Lat:       v.Coords.Lat,
			Lon:       v.Coords.Lon,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
