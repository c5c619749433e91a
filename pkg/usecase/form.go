package usecase

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/grocerly/grocery-admin/pkg/domain/interfaces"
	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/domain/model/config"
	"github.com/grocerly/grocery-admin/pkg/domain/types"
	"github.com/grocerly/grocery-admin/pkg/utils/async"
	"github.com/grocerly/grocery-admin/pkg/utils/errutil"
	"github.com/grocerly/grocery-admin/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// FormController owns the state of one add/edit form: field values, field
// errors, image references, staged files and the submission status. All
// methods are safe for concurrent use; at most one submission is in flight.
type FormController struct {
	mu sync.Mutex

	schema    *config.FormSchema
	access    interfaces.RecordAccess
	validator *model.Validator
	staging   *model.Staging
	notifier  interfaces.Notifier

	mode     types.FormMode
	recordID string

	// reset target
	initial       model.Record
	initialImages map[string]model.ImageRef

	record  model.Record
	images  map[string]model.ImageRef
	errors  model.FieldErrors
	status  types.SubmitStatus
	notice  *model.Notification
	failure error

	// files the user picked but staging refused, per image field; they block
	// submission until the field is changed again
	rejected model.FieldErrors

	resetDelay time.Duration
	timeout    time.Duration
	resetTimer *time.Timer
	generation uint64
	cancel     context.CancelFunc
	disposed   bool

	observers []func(types.SubmitStatus)
	onClose   func()
}

type FormOption func(*FormController)

// WithObserver registers fn to be called after every status transition. fn
// runs without the controller lock held.
func WithObserver(fn func(types.SubmitStatus)) FormOption {
	return func(c *FormController) {
		c.observers = append(c.observers, fn)
	}
}

// WithCloseHook registers fn to be called when the form is cancelled, so a
// hosting modal can close itself
func WithCloseHook(fn func()) FormOption {
	return func(c *FormController) {
		c.onClose = fn
	}
}

// WithFormResetDelay overrides the delay of the post-success reset
func WithFormResetDelay(d time.Duration) FormOption {
	return func(c *FormController) {
		c.resetDelay = d
	}
}

// WithFormTimeout overrides the collaborator request timeout
func WithFormTimeout(d time.Duration) FormOption {
	return func(c *FormController) {
		c.timeout = d
	}
}

type formParams struct {
	schema   *config.FormSchema
	access   interfaces.RecordAccess
	notifier interfaces.Notifier
	previews model.PreviewIssuer
	mode     types.FormMode
	recordID string
	record   model.Record
	images   map[string]model.ImageRef
}

func newFormController(p formParams, resetDelay, timeout time.Duration, opts ...FormOption) *FormController {
	c := &FormController{
		schema:        p.schema,
		access:        p.access,
		validator:     model.NewValidator(p.schema),
		staging:       model.NewStaging(p.previews),
		notifier:      p.notifier,
		mode:          p.mode,
		recordID:      p.recordID,
		initial:       p.record.Clone(),
		initialImages: maps.Clone(p.images),
		resetDelay:    resetDelay,
		timeout:       timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetLocked()
	return c
}

// Set updates a field value and clears its error. Image fields accept a URL
// string or a []string of URLs.
func (c *FormController) Set(field string, value any) error {
	c.mu.Lock()
	fd, ok := c.schema.Field(field)
	if !ok {
		c.mu.Unlock()
		return goerr.Wrap(model.ErrUnknownField, "cannot set field",
			goerr.V(model.ResourceKey, c.schema.Resource), goerr.V(model.FieldKey, field))
	}

	transitions, err := c.beginEditLocked()
	if err != nil {
		c.mu.Unlock()
		return err
	}

	if fd.Type == types.FieldTypeImage {
		c.setRemoteLocked(field, model.Record{field: value}.Strings(field))
	} else {
		c.record[field] = value
		c.errors.Clear(field)
		c.record = c.validator.Derive(c.record)
	}
	c.mu.Unlock()

	c.emit(transitions)
	return nil
}

// SetRemoteImage points an image field at already uploaded URLs, releasing any
// file staged for it
func (c *FormController) SetRemoteImage(field string, urls ...string) error {
	c.mu.Lock()
	if err := c.imageFieldLocked(field); err != nil {
		c.mu.Unlock()
		return err
	}
	transitions, err := c.beginEditLocked()
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.setRemoteLocked(field, urls)
	c.mu.Unlock()

	c.emit(transitions)
	return nil
}

// StageFiles stages files for an image field. Rejected files are reported as
// the field's error; accepted files replace any remote URL of the field.
func (c *FormController) StageFiles(field string, inputs []model.FileInput) ([]*model.StagedFile, error) {
	c.mu.Lock()
	if err := c.imageFieldLocked(field); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	transitions, err := c.beginEditLocked()
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	fd, _ := c.schema.Field(field)
	staged, rejection := c.staging.Stage(fd, inputs)
	if len(staged) > 0 {
		c.refreshStagedLocked(field)
		c.errors.Clear(field)
	}
	if rejection != "" {
		c.errors.Set(field, rejection)
		c.rejected.Set(field, rejection)
	} else {
		c.rejected.Clear(field)
	}
	c.mu.Unlock()

	c.emit(transitions)
	return staged, nil
}

// Unstage removes one staged file and releases its preview URL
func (c *FormController) Unstage(fileID string) error {
	c.mu.Lock()
	if _, ok := c.staging.Get(fileID); !ok {
		c.mu.Unlock()
		return goerr.Wrap(model.ErrFileNotStaged, "cannot unstage file", goerr.V(model.FileIDKey, fileID))
	}
	transitions, err := c.beginEditLocked()
	if err != nil {
		c.mu.Unlock()
		return err
	}

	// an edit after success resets the staging, so the file may be gone now
	if f, ok := c.staging.Unstage(fileID); ok {
		c.refreshStagedLocked(f.Field())
		c.rejected.Clear(f.Field())
	}
	c.mu.Unlock()

	c.emit(transitions)
	return nil
}

// ClearImage empties an image field in either representation
func (c *FormController) ClearImage(field string) error {
	c.mu.Lock()
	if err := c.imageFieldLocked(field); err != nil {
		c.mu.Unlock()
		return err
	}
	transitions, err := c.beginEditLocked()
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.staging.RemoveField(field)
	c.images[field] = model.EmptyImage()
	c.errors.Clear(field)
	c.rejected.Clear(field)
	c.mu.Unlock()

	c.emit(transitions)
	return nil
}

// Submit validates the form and, when it is clean, hands the record and the
// staged files to the collaborator. Validation problems return EDITING and a
// nil error; collaborator failures return FAILED and the error. A submit while
// the confirmation of a previous success is shown does nothing.
func (c *FormController) Submit(ctx context.Context) (types.SubmitStatus, error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return types.SubmitStatusIdle, goerr.Wrap(model.ErrFormDisposed, "cannot submit")
	}
	if c.status == types.SubmitStatusSubmitting {
		c.mu.Unlock()
		return types.SubmitStatusSubmitting, goerr.Wrap(model.ErrSubmitInFlight, "submit ignored",
			goerr.V(model.ResourceKey, c.schema.Resource))
	}
	if c.status == types.SubmitStatusSucceeded {
		c.mu.Unlock()
		return types.SubmitStatusSucceeded, nil
	}

	transitions := []types.SubmitStatus{types.SubmitStatusValidating}
	c.status = types.SubmitStatusValidating
	c.record = c.validator.Derive(c.record)

	errs := c.validator.Validate(&model.Draft{Mode: c.mode, Fields: c.record, Images: c.images})
	for _, f := range c.rejected.Fields() {
		if !errs.Has(f) {
			errs.Set(f, c.rejected.Get(f))
		}
	}
	if !errs.Empty() {
		c.errors = errs
		c.status = types.SubmitStatusEditing
		transitions = append(transitions, c.status)
		c.mu.Unlock()

		c.emit(transitions)
		return types.SubmitStatusEditing, nil
	}

	c.errors = model.FieldErrors{}
	c.status = types.SubmitStatusSubmitting
	c.notice = nil
	c.failure = nil
	transitions = append(transitions, c.status)

	payload := c.payloadLocked()
	files := c.staging.Files()
	mode, id, access := c.mode, c.recordID, c.access
	reqCtx, cancel := c.requestContext(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	c.emit(transitions)

	var stored model.Record
	var err error
	if mode == types.FormModeEdit {
		stored, err = access.Update(reqCtx, id, payload, files)
	} else {
		stored, err = access.Create(reqCtx, payload, files)
	}
	if err != nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, model.ErrTimeout) {
		err = goerr.Wrap(model.ErrTimeout, "request timed out",
			goerr.V(model.ResourceKey, c.schema.Resource), goerr.V(model.CauseKey, err.Error()))
	}
	cancel()

	c.mu.Lock()
	c.cancel = nil
	if c.disposed {
		c.mu.Unlock()
		if err != nil {
			return types.SubmitStatusFailed, err
		}
		return types.SubmitStatusSucceeded, nil
	}

	if err != nil {
		c.status = types.SubmitStatusFailed
		c.failure = err
		c.notice = c.failureNotice(err)
		notice := c.notice
		c.mu.Unlock()

		errutil.Handle(ctx, err, "failed to submit form")
		c.emit([]types.SubmitStatus{types.SubmitStatusFailed})
		c.dispatch(ctx, notice)
		return types.SubmitStatusFailed, err
	}

	c.status = types.SubmitStatusSucceeded
	if mode == types.FormModeEdit {
		record, images := hydrate(c.schema, mergeStored(payload, stored))
		c.initial, c.initialImages = record, images
	}
	storedID := id
	if stored != nil && stored.ID(c.schema.IDKey()) != "" {
		storedID = stored.ID(c.schema.IDKey())
	}
	c.notice = &model.Notification{
		Level:    types.NoticeLevelSuccess,
		Resource: c.schema.Resource,
		Mode:     mode,
		RecordID: storedID,
		Message:  fmt.Sprintf("%s %s successfully", c.schema.Title, pastTense(mode)),
	}
	notice := c.notice
	c.scheduleResetLocked()
	c.mu.Unlock()

	logging.From(ctx).Info("form submitted",
		"resource", c.schema.Resource,
		"mode", mode,
		"record_id", storedID,
		"files", len(files),
	)
	c.emit([]types.SubmitStatus{types.SubmitStatusSucceeded})
	c.dispatch(ctx, notice)
	return types.SubmitStatusSucceeded, nil
}

// Cancel discards all edits and staged files, returns to IDLE and invokes the
// close hook
func (c *FormController) Cancel() error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return goerr.Wrap(model.ErrFormDisposed, "cannot cancel")
	}
	if c.status == types.SubmitStatusSubmitting {
		c.mu.Unlock()
		return goerr.Wrap(model.ErrSubmitInFlight, "cannot cancel")
	}
	c.resetLocked()
	onClose := c.onClose
	c.mu.Unlock()

	c.emit([]types.SubmitStatus{types.SubmitStatusIdle})
	if onClose != nil {
		onClose()
	}
	return nil
}

// Reset returns the form to its initial snapshot
func (c *FormController) Reset() error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return goerr.Wrap(model.ErrFormDisposed, "cannot reset")
	}
	if c.status == types.SubmitStatusSubmitting {
		c.mu.Unlock()
		return goerr.Wrap(model.ErrSubmitInFlight, "cannot reset")
	}
	c.resetLocked()
	c.mu.Unlock()

	c.emit([]types.SubmitStatus{types.SubmitStatusIdle})
	return nil
}

// Dispose tears the form down: the pending reset is cancelled, an in-flight
// request is cancelled and every preview URL is released. Further calls fail
// with model.ErrFormDisposed. Dispose is idempotent.
func (c *FormController) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}
	c.disposed = true
	c.generation++
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.staging.Reset()
}

func (c *FormController) Status() types.SubmitStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Record returns a copy of the current scalar field values
func (c *FormController) Record() model.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record.Clone()
}

func (c *FormController) Errors() model.FieldErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.Clone()
}

func (c *FormController) Images() map[string]model.ImageRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.images)
}

func (c *FormController) Files() []*model.StagedFile {
	return c.staging.Files()
}

// Notice returns the notification of the last submission attempt, if any
func (c *FormController) Notice() *model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notice == nil {
		return nil
	}
	n := *c.notice
	return &n
}

// Failure returns the collaborator error of the last failed submission
func (c *FormController) Failure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failure
}

func (c *FormController) Mode() types.FormMode       { return c.mode }
func (c *FormController) Resource() types.Resource   { return c.schema.Resource }
func (c *FormController) Schema() *config.FormSchema { return c.schema }
func (c *FormController) RecordID() string           { return c.recordID }

// File looks up a staged file of this form
func (c *FormController) File(id string) (*model.StagedFile, bool) {
	return c.staging.Get(id)
}

// Disposed reports whether Dispose has been called
func (c *FormController) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// beginEditLocked moves the form into EDITING. An edit after success starts
// from the reset snapshot.
func (c *FormController) beginEditLocked() ([]types.SubmitStatus, error) {
	if c.disposed {
		return nil, goerr.Wrap(model.ErrFormDisposed, "cannot edit")
	}
	switch c.status {
	case types.SubmitStatusSubmitting, types.SubmitStatusValidating:
		return nil, goerr.Wrap(model.ErrSubmitInFlight, "cannot edit",
			goerr.V(model.ResourceKey, c.schema.Resource))
	case types.SubmitStatusSucceeded:
		c.resetLocked()
	case types.SubmitStatusEditing:
		return nil, nil
	}
	c.status = types.SubmitStatusEditing
	return []types.SubmitStatus{types.SubmitStatusEditing}, nil
}

func (c *FormController) imageFieldLocked(field string) error {
	fd, ok := c.schema.Field(field)
	if !ok {
		return goerr.Wrap(model.ErrUnknownField, "unknown image field",
			goerr.V(model.ResourceKey, c.schema.Resource), goerr.V(model.FieldKey, field))
	}
	if fd.Type != types.FieldTypeImage {
		return goerr.Wrap(model.ErrNotImageField, "field does not hold images",
			goerr.V(model.ResourceKey, c.schema.Resource), goerr.V(model.FieldKey, field))
	}
	return nil
}

// setRemoteLocked switches an image field to remote URLs; staged files of the
// field are released
func (c *FormController) setRemoteLocked(field string, urls []string) {
	c.staging.RemoveField(field)
	c.images[field] = model.RemoteImage(urls...)
	c.errors.Clear(field)
	c.rejected.Clear(field)
}

func (c *FormController) refreshStagedLocked(field string) {
	var ids []string
	for _, f := range c.staging.FilesFor(field) {
		ids = append(ids, f.ID())
	}
	c.images[field] = model.StagedImage(ids...)
}

func (c *FormController) resetLocked() {
	c.generation++
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
	c.staging.Reset()
	c.record = c.initial.Clone()
	c.images = maps.Clone(c.initialImages)
	if c.images == nil {
		c.images = make(map[string]model.ImageRef)
	}
	c.errors = model.FieldErrors{}
	c.rejected = model.FieldErrors{}
	c.status = types.SubmitStatusIdle
	c.notice = nil
	c.failure = nil
}

func (c *FormController) scheduleResetLocked() {
	gen := c.generation
	c.resetTimer = time.AfterFunc(c.resetDelay, func() {
		c.mu.Lock()
		if c.disposed || c.generation != gen || c.status != types.SubmitStatusSucceeded {
			c.mu.Unlock()
			return
		}
		c.resetLocked()
		c.mu.Unlock()

		c.emit([]types.SubmitStatus{types.SubmitStatusIdle})
	})
}

// payloadLocked builds the record handed to the collaborator. Remote image
// URLs are written into their fields; staged fields are left to the files.
func (c *FormController) payloadLocked() model.Record {
	payload := c.record.Clone()
	for _, fd := range c.schema.ImageFields() {
		ref := c.images[fd.ID]
		switch ref.Kind() {
		case types.ImageRefRemote:
			if fd.Image.Multiple {
				payload[fd.ID] = ref.URLs()
			} else {
				payload[fd.ID] = ref.URLs()[0]
			}
		case types.ImageRefStaged:
			delete(payload, fd.ID)
		default:
			if fd.Image.Multiple {
				payload[fd.ID] = []string{}
			} else {
				payload[fd.ID] = ""
			}
		}
	}
	return payload
}

func (c *FormController) failureNotice(err error) *model.Notification {
	kind := model.FailureKindOf(err)
	reason := "the server could not be reached"
	switch kind {
	case types.FailureKindTimeout:
		reason = "the request timed out"
	case types.FailureKindNotFound:
		reason = "the record no longer exists"
	}
	return &model.Notification{
		Level:    types.NoticeLevelError,
		Resource: c.schema.Resource,
		Mode:     c.mode,
		RecordID: c.recordID,
		Message: fmt.Sprintf("Failed to %s %s: %s",
			c.mode, strings.ToLower(c.schema.Title), reason),
		Kind: kind,
	}
}

func (c *FormController) emit(transitions []types.SubmitStatus) {
	for _, s := range transitions {
		for _, fn := range c.observers {
			fn(s)
		}
	}
}

func (c *FormController) dispatch(ctx context.Context, n *model.Notification) {
	if c.notifier == nil || n == nil {
		return
	}
	async.Dispatch(ctx, func(ctx context.Context) error {
		return c.notifier.Notify(ctx, n)
	})
}

func (c *FormController) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func pastTense(mode types.FormMode) string {
	if mode == types.FormModeEdit {
		return "updated"
	}
	return "created"
}

// mergeStored overlays the backend's answer onto what was sent, so fields the
// backend does not echo keep their submitted values
func mergeStored(sent, stored model.Record) model.Record {
	merged := sent.Clone()
	for k, v := range stored {
		merged[k] = v
	}
	return merged
}
