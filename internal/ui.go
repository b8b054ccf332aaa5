package internal

import (
	"errors"
	"mime"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/cms/pkg/storage"
	"github.com/dmitrymomot/cms/pkg/view"
)

const maxFormMemory = 32 << 20

// htmlColumn is implemented by columns with a rich rendering, such as markdown.
type htmlColumn interface {
	HTML() string
}

// fileColumn is implemented by columns that reference an uploaded file.
type fileColumn interface {
	URL() string
	SetKey(key string)
}

func (h *entityHandlers[T, R]) viewFields(e *T) []view.Field {
	fields := make([]view.Field, len(h.schema.Columns))
	for i, f := range h.schema.Columns {
		col := f.Ref(e)
		vf := view.Field{
			Name:      f.Name,
			Label:     f.label(),
			Value:     col.String(),
			InputType: inputType(col),
		}
		if hc, ok := col.(htmlColumn); ok {
			vf.HTML = hc.HTML()
		}
		if fc, ok := col.(fileColumn); ok && vf.Value != "" {
			vf.Href = fc.URL()
		}
		fields[i] = vf
	}
	return fields
}

func (h *entityHandlers[T, R]) viewItem(e *T) view.Item {
	return view.Item{ID: h.schema.IDOf(e).String(), Fields: h.viewFields(e)}
}

func (h *entityHandlers[T, R]) labels() []string {
	labels := make([]string, len(h.schema.Columns))
	for i, f := range h.schema.Columns {
		labels[i] = f.label()
	}
	return labels
}

func (h *entityHandlers[T, R]) uiList(c Ctx) error {
	items, err := h.list(c)
	if err != nil {
		return err
	}
	page := view.ListPage{
		Nav:        h.nav(),
		Name:       h.schema.Name,
		NamePlural: h.schema.NamePlural,
		Labels:     h.labels(),
		Items:      make([]view.Item, len(items)),
	}
	for i := range items {
		page.Items[i] = h.viewItem(&items[i])
	}
	page.Flash = h.takeFlash(c)
	return c.Render(http.StatusOK, h.env.Renderer.List(page))
}

func (h *entityHandlers[T, R]) uiDetail(c Ctx) error {
	_, e, err := h.load(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, h.env.Renderer.Detail(view.DetailPage{
		Nav:        h.nav(),
		Name:       h.schema.Name,
		NamePlural: h.schema.NamePlural,
		Item:       h.viewItem(&e),
		Flash:      h.takeFlash(c),
	}))
}

func (h *entityHandlers[T, R]) renderDetail(c Ctx, code int, e *T, msg string) error {
	return c.Render(code, h.env.Renderer.Detail(view.DetailPage{
		Nav:        h.nav(),
		Name:       h.schema.Name,
		NamePlural: h.schema.NamePlural,
		Item:       h.viewItem(e),
		Error:      msg,
	}))
}

// setFlash queues a notice for the page the client is redirected to.
func (h *entityHandlers[T, R]) setFlash(c Ctx, msg string) {
	if h.env.Cookies != nil {
		h.env.Cookies.SetFlash(c.Response(), msg)
	}
}

func (h *entityHandlers[T, R]) takeFlash(c Ctx) string {
	if h.env.Cookies == nil {
		return ""
	}
	return h.env.Cookies.Flash(c.Response(), c.Request())
}

func (h *entityHandlers[T, R]) renderForm(c Ctx, code int, e *T, msg string) error {
	return c.Render(code, h.env.Renderer.Form(view.FormPage{
		Nav:        h.nav(),
		Name:       h.schema.Name,
		NamePlural: h.schema.NamePlural,
		Fields:     h.viewFields(e),
		Error:      msg,
	}))
}

func (h *entityHandlers[T, R]) uiUpdate(c Ctx) error {
	ext, err := h.extract(c)
	if err != nil {
		return err
	}
	id, old, err := h.load(c)
	if err != nil {
		return err
	}

	updated := old
	uploaded, err := h.bind(c, &updated)
	if err != nil {
		return h.formFailure(c, err, func(code int, msg string) error {
			return h.renderDetail(c, code, &old, msg)
		})
	}
	saved := false
	defer func() {
		if !saved {
			h.settleFiles(c, nil, nil, uploaded)
		}
	}()

	if err := h.forceID(&updated, id); err != nil {
		return err
	}
	updated, err = h.hooks.OnUpdate(c, old, updated, ext)
	if err != nil {
		return h.formFailure(c, hookError(err), func(code int, msg string) error {
			return h.renderDetail(c, code, &old, msg)
		})
	}
	if err := h.forceID(&updated, id); err != nil {
		return err
	}
	if err := h.update(c, &updated); err != nil {
		return err
	}
	saved = true
	h.settleFiles(c, &old, &updated, uploaded)

	h.setFlash(c, h.schema.Name+" saved")
	return c.Redirect(http.StatusSeeOther, view.ItemHref(h.schema.Name, id))
}

func (h *entityHandlers[T, R]) uiAddForm(c Ctx) error {
	var e T
	return h.renderForm(c, http.StatusOK, &e, "")
}

func (h *entityHandlers[T, R]) uiAddSubmit(c Ctx) error {
	ext, err := h.extract(c)
	if err != nil {
		return err
	}

	var e T
	uploaded, err := h.bind(c, &e)
	if err != nil {
		return h.formFailure(c, err, func(code int, msg string) error {
			return h.renderForm(c, code, &e, msg)
		})
	}
	saved := false
	defer func() {
		if !saved {
			h.settleFiles(c, nil, nil, uploaded)
		}
	}()

	h.schema.ensureID(&e)
	submitted := e
	e, err = h.hooks.OnCreate(c, e, ext)
	if err != nil {
		return h.formFailure(c, hookError(err), func(code int, msg string) error {
			return h.renderForm(c, code, &submitted, msg)
		})
	}
	if err := h.insert(c, &e); err != nil {
		return err
	}
	saved = true
	h.settleFiles(c, nil, &e, uploaded)

	h.setFlash(c, h.schema.Name+" created")
	return c.Redirect(http.StatusSeeOther, view.ItemHref(h.schema.Name, h.schema.IDOf(&e).String()))
}

func (h *entityHandlers[T, R]) uiDelete(c Ctx) error {
	ext, err := h.extract(c)
	if err != nil {
		return err
	}
	_, stored, err := h.load(c)
	if err != nil {
		return err
	}
	if _, err := h.hooks.OnDelete(c, stored, ext); err != nil {
		return hookError(err)
	}
	if err := h.delete(c, &stored); err != nil {
		return err
	}
	h.setFlash(c, h.schema.Name+" deleted")
	return c.Redirect(http.StatusSeeOther, view.ListHref(h.schema.NamePlural))
}

// formFailure re-renders a form for client errors so the user can fix the
// input. Other errors go to the error handler.
func (h *entityHandlers[T, R]) formFailure(c Ctx, err error, render func(code int, msg string) error) error {
	he := AsHTTPError(err)
	if he == nil || he.Code >= http.StatusInternalServerError {
		return err
	}
	return render(he.Code, he.Message)
}

// bind parses the submitted form into e and stores uploaded files. It
// returns the keys it stored; on error nothing stays stored.
func (h *entityHandlers[T, R]) bind(c Ctx, e *T) ([]string, error) {
	r := c.Request()
	r.Body = http.MaxBytesReader(c.Response(), r.Body, maxFormMemory)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if ct == "multipart/form-data" {
		err = r.ParseMultipartForm(maxFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, payloadError(errors.Join(ErrInvalidPayload, err))
	}

	if err := h.schema.BindForm(formValues(r), e); err != nil {
		return nil, payloadError(err)
	}
	if r.MultipartForm == nil {
		return nil, nil
	}

	var uploaded []string
	for _, f := range h.schema.Columns {
		fc, ok := f.Ref(e).(fileColumn)
		if !ok {
			continue
		}
		files := r.MultipartForm.File[f.Name]
		if len(files) == 0 || files[0].Size == 0 {
			continue
		}
		if h.env.Storage == nil {
			return nil, ErrInternal("file uploads are not configured", WithError(ErrStorage))
		}
		info, err := storage.PutFile(c, h.env.Storage, files[0], storage.WithPrefix(h.schema.TableName()))
		if err != nil {
			h.settleFiles(c, nil, nil, uploaded)
			return nil, uploadError(err)
		}
		uploaded = append(uploaded, info.Key)
		fc.SetKey(info.Key)
	}
	return uploaded, nil
}

// formValues returns the body values of a parsed form, ignoring the query.
func formValues(r *http.Request) url.Values {
	if r.MultipartForm != nil {
		return url.Values(r.MultipartForm.Value)
	}
	return r.PostForm
}

func uploadError(err error) error {
	if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrInvalidMIME) || errors.Is(err, storage.ErrEmptyFile) {
		return ErrBadRequest(err.Error(), WithError(err), WithErrorCode("invalid_upload"))
	}
	return ErrInternal("failed to store upload", WithError(errors.Join(ErrStorage, err)))
}
