// components/pages/blocks.go

package pages

import (
	"net/http"

	"github.com/yanizio/linkbio/internal/acl"
	"github.com/yanizio/linkbio/internal/api"
	"github.com/yanizio/linkbio/internal/block"
	"github.com/yanizio/linkbio/internal/form"
)

// orderReq is shared with the links component's wire format.
type orderReq struct {
	IDs []int64 `json:"ids" validate:"required"`
}

func (c *Component) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	pid, _ := acl.PageID(r.Context())
	bs, err := block.List(r.Context(), c.env.DB(), pid, false)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, bs)
}

func (c *Component) handleCreateBlock(w http.ResponseWriter, r *http.Request) {
	var in block.NewBlock
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}
	pid, _ := acl.PageID(r.Context())
	id, err := block.Create(r.Context(), c.env.DB(), pid, in)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	b, err := block.Get(r.Context(), c.env.DB(), pid, id)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.Created(w, b)
}

func (c *Component) handlePatchBlock(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	var in block.Patch
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}
	pid, _ := acl.PageID(r.Context())
	if err := block.Update(r.Context(), c.env.DB(), pid, id, in); err != nil {
		api.Fail(w, r, err)
		return
	}
	b, err := block.Get(r.Context(), c.env.DB(), pid, id)
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	api.OK(w, b)
}

func (c *Component) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.Fail(w, r, err)
		return
	}
	pid, _ := acl.PageID(r.Context())
	if err := block.Delete(r.Context(), c.env.DB(), pid, id); err != nil {
		api.Fail(w, r, err)
		return
	}
	api.NoContent(w)
}

func (c *Component) handleOrderBlocks(w http.ResponseWriter, r *http.Request) {
	var in orderReq
	if err := form.Decode(r, &in); err != nil {
		api.Fail(w, r, err)
		return
	}
	pid, _ := acl.PageID(r.Context())
	if err := block.Reorder(r.Context(), c.env.DB(), pid, in.IDs); err != nil {
		api.Fail(w, r, err)
		return
	}
	c.handleListBlocks(w, r)
}
