package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mintleaf-fin/mintleaf/internal/common"
	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/notify"
	"github.com/mintleaf-fin/mintleaf/internal/rules"
	"github.com/mintleaf-fin/mintleaf/internal/tracker"
)

// Categories holds the full category set, both types together, and
// orchestrates fetch, create, and update against the remote service.
// Categories are never deleted.
type Categories struct {
	service   Service
	notifier  notify.Notifier
	snapshots Snapshots
	rules     rules.Validator

	mu         sync.Mutex
	categories []model.Category
	selected   *model.Category

	loading  *tracker.Tracker
	adding   *tracker.Tracker
	updating *tracker.Tracker
}

// NewCategories builds the category store. snapshots may be nil.
func NewCategories(service Service, notifier notify.Notifier, snapshots Snapshots) *Categories {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Categories{
		service:   service,
		notifier:  notifier,
		snapshots: snapshots,
		loading:   tracker.New(),
		adding:    tracker.New(),
		updating:  tracker.New(),
	}
}

// Load replaces the in-memory category set wholesale, in server order. It
// fails closed: on error the previous set is retained. A call while a load
// is already in flight is a no-op.
func (c *Categories) Load(ctx context.Context) error {
	ran, err := c.loading.TryRun(func() error {
		categories, err := c.service.Categories(ctx)
		if err != nil {
			c.notifier.Error(common.UserMessage(err, "Failed to fetch categories"))
			return err
		}

		c.mu.Lock()
		c.categories = categories
		c.mu.Unlock()

		c.snapshot(ctx, categories)
		return nil
	})
	if !ran {
		slog.Debug("category load suppressed, fetch already in flight")
		return nil
	}
	return err
}

// Add validates input and submits a new category. A name already used by
// any category of either type, compared case-insensitively after trimming,
// is rejected before any network call. On success the set reconciles from
// the server rather than appending locally, so server-side defaulting never
// drifts.
func (c *Categories) Add(ctx context.Context, input rules.CategoryInput) error {
	return c.adding.Run(func() error {
		payload, err := c.rules.Category(input)
		if err != nil {
			c.notifier.Error(common.UserMessage(err, "Failed to add category."))
			return err
		}

		if c.HasName(payload.Name) {
			err := common.NewUserError("Category Name already exists", common.ErrDuplicateCategory)
			c.notifier.Error(common.UserMessage(err, "Failed to add category."))
			return err
		}

		if _, err := c.service.CreateCategory(ctx, payload); err != nil {
			c.notifier.Error(common.UserMessage(err, "Failed to add category."))
			return err
		}

		c.notifier.Success("Category added successfully")
		c.reconcile(ctx)
		return nil
	})
}

// Update replaces the category identified by id with the validated payload,
// then reconciles and clears the edit selection.
func (c *Categories) Update(ctx context.Context, id string, input rules.CategoryInput) error {
	return c.updating.Run(func() error {
		if id == "" {
			err := common.NewUserError("Category ID is missing for update", common.ErrMissingID)
			c.notifier.Error(common.UserMessage(err, "Failed to update category."))
			return err
		}

		payload, err := c.rules.Category(input)
		if err != nil {
			c.notifier.Error(common.UserMessage(err, "Failed to update category."))
			return err
		}

		if err := c.service.UpdateCategory(ctx, id, payload); err != nil {
			c.notifier.Error(common.UserMessage(err, "Failed to update category."))
			return err
		}

		c.ClearSelection()
		c.notifier.Success("Category updated successfully")
		c.reconcile(ctx)
		return nil
	})
}

// HasName reports whether any category of either type already uses name,
// comparing case-insensitively after trimming.
func (c *Categories) HasName(name string) bool {
	name = strings.TrimSpace(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cat := range c.categories {
		if strings.EqualFold(strings.TrimSpace(cat.Name), name) {
			return true
		}
	}
	return false
}

// All returns a copy of the category set in server order.
func (c *Categories) All() []model.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Find returns the category with the given id, or false.
func (c *Categories) Find(id string) (model.Category, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return model.Category{}, false
}

// Select marks a category as the edit target.
func (c *Categories) Select(cat model.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = &cat
}

// Selected returns the current edit target, or false when none is set.
func (c *Categories) Selected() (model.Category, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return model.Category{}, false
	}
	return *c.selected, true
}

// ClearSelection drops the edit target.
func (c *Categories) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
}

// Loading returns the tracker for Load.
func (c *Categories) Loading() *tracker.Tracker { return c.loading }

// Adding returns the tracker for Add.
func (c *Categories) Adding() *tracker.Tracker { return c.adding }

// Updating returns the tracker for Update.
func (c *Categories) Updating() *tracker.Tracker { return c.updating }

func (c *Categories) reconcile(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		slog.Warn("category reconcile failed", "error", err)
	}
}

func (c *Categories) snapshot(ctx context.Context, categories []model.Category) {
	if c.snapshots == nil {
		return
	}
	if err := c.snapshots.SaveCategories(ctx, categories); err != nil {
		slog.Warn("failed to snapshot categories", "error", err)
	}
}
