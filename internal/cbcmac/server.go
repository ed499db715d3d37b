package cbcmac

import (
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TransferRequest carries a hex encoded signed request.
type TransferRequest struct {
	Message string `binding:"required" json:"message"`
}

// TransferResponse lists the applied transfers.
type TransferResponse struct {
	Transfers []Transfer `json:"transfers"`
}

// ErrorResponse describes a rejected request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Router returns a gin engine serving POST /v1/transfer and POST /v2/transfer.
func (b *Bank) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.POST("/v1/transfer", b.handle(func(req []byte) ([]Transfer, error) {
		t, err := b.AcceptV1(req)

		return []Transfer{t}, err
	}))
	r.POST("/v2/transfer", b.handle(b.AcceptV2))

	return r
}

func (b *Bank) handle(accept func([]byte) ([]Transfer, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req TransferRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request: " + err.Error()})

			return
		}

		raw, err := hex.DecodeString(req.Message)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid message encoding"})

			return
		}

		transfers, err := accept(raw)

		switch {
		case errors.Is(err, ErrInvalidMAC):
			ctx.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
		case err != nil:
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		default:
			ctx.JSON(http.StatusOK, TransferResponse{Transfers: transfers})
		}
	}
}
