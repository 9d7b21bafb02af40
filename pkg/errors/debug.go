package errors

import (
	"errors"
	"fmt"

	"github.com/stellar/go/clients/horizonclient"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	HorizonType   string `json:"horizon_type,omitempty"`
	HorizonTitle  string `json:"horizon_title,omitempty"`
	HorizonStatus int    `json:"horizon_status,omitempty"`
	HorizonDetail string `json:"horizon_detail,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var horizonErr *horizonclient.Error
	if errors.As(err, &horizonErr) {
		d.HorizonType = horizonErr.Problem.Type
		d.HorizonTitle = horizonErr.Problem.Title
		d.HorizonStatus = horizonErr.Problem.Status
		d.HorizonDetail = horizonErr.Problem.Detail
	}

	return d
}
