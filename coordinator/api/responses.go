package api

import (
	"net/http"

	"github.com/absmach/fedledger/model"
	"github.com/absmach/magistrala"
)

var (
	_ magistrala.Response = (*metadataResponse)(nil)
	_ magistrala.Response = (*aggregateResponse)(nil)
	_ magistrala.Response = (*updateListResponse)(nil)
	_ magistrala.Response = (*receivedCountResponse)(nil)
	_ magistrala.Response = (*quorumResponse)(nil)
	_ magistrala.Response = (*personalInfoResponse)(nil)
	_ magistrala.Response = (*hasRoleResponse)(nil)
)

type metadataResponse struct {
	model.Metadata
	created bool
}

func (r metadataResponse) Code() int {
	if r.created {
		return http.StatusCreated
	}

	return http.StatusOK
}

func (r metadataResponse) Headers() map[string]string {
	if r.created {
		return map[string]string{
			"Location": "/models/" + r.ModelID,
		}
	}

	return map[string]string{}
}

func (r metadataResponse) Empty() bool {
	return false
}

type aggregateResponse struct {
	model.EndRoundModel
}

func (r aggregateResponse) Code() int {
	return http.StatusOK
}

func (r aggregateResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r aggregateResponse) Empty() bool {
	return false
}

type updateListResponse struct {
	model.ClientUpdateList
}

func (r updateListResponse) Code() int {
	return http.StatusOK
}

func (r updateListResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r updateListResponse) Empty() bool {
	return false
}

type receivedCountResponse struct {
	Received int `json:"received"`
}

func (r receivedCountResponse) Code() int {
	return http.StatusOK
}

func (r receivedCountResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r receivedCountResponse) Empty() bool {
	return false
}

type quorumResponse struct {
	AllReceived bool `json:"allReceived"`
}

func (r quorumResponse) Code() int {
	return http.StatusOK
}

func (r quorumResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r quorumResponse) Empty() bool {
	return false
}

type personalInfoResponse struct {
	model.PersonalInfo
}

func (r personalInfoResponse) Code() int {
	return http.StatusOK
}

func (r personalInfoResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r personalInfoResponse) Empty() bool {
	return false
}

type hasRoleResponse struct {
	Role    string `json:"role"`
	HasRole bool   `json:"hasRole"`
}

func (r hasRoleResponse) Code() int {
	return http.StatusOK
}

func (r hasRoleResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r hasRoleResponse) Empty() bool {
	return false
}
