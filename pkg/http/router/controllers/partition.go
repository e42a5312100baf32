package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	helper "github.com/lintang-b-s/fmpartitioner/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type partitionAPI struct {
	partitionService PartitionService
	log              *zap.Logger
	maxRequestBytes  int64

	validate *validator.Validate
	trans    ut.Translator
}

func New(partitionService PartitionService, log *zap.Logger, maxRequestBytes int64) *partitionAPI {
	validate := validator.New()
	trans := newTranslator(validate, log)

	return &partitionAPI{
		partitionService: partitionService,
		log:              log,
		maxRequestBytes:  maxRequestBytes,
		validate:         validate,
		trans:            trans,
	}
}

// newTranslator registers the english validation messages. on failure validation errors keep their raw tags.
func newTranslator(validate *validator.Validate, log *zap.Logger) ut.Translator {
	english := en.New()
	uni := ut.New(english, english)
	trans, found := uni.GetTranslator("en")
	if !found {
		log.Warn("english translator not found, using fallback locale", zap.String("locale", trans.Locale()))
	}
	registerTranslations(validate, trans, log)
	return trans
}

func registerTranslations(validate *validator.Validate, trans ut.Translator, log *zap.Logger) bool {
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		log.Error("fail to register validation translations", zap.Error(err))
		return false
	}
	return true
}

func (api *partitionAPI) Routes(group *helper.RouteGroup) {
	group.POST("/partition", api.partition)
}

// partition runs one fm pass on the posted hypergraph.
func (api *partitionAPI) partition(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request partitionRequest

	if api.maxRequestBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, api.maxRequestBytes)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&request); err != nil {
		api.BadRequestResponse(w, r, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}

	if err := api.validate.Struct(request); err != nil {
		vv := translateError(err, api.trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	res, hg, err := api.partitionService.Partition(r.Context(), *request.MinCutRatio, request.Nets)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": newPartitionResponse(res, hg)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
