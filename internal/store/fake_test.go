package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/mintleaf-fin/mintleaf/internal/model"
)

// fakeService is an in-memory LedgerService double that counts every call.
// Set blockTransactions to hold Transactions open until released, and err
// fields to force failures.
type fakeService struct {
	mu sync.Mutex

	transactions map[model.LedgerKind][]model.Transaction
	categories   []model.Category
	nextID       int

	transactionsErr      error
	categoriesErr        error
	createTransactionErr error
	deleteTransactionErr error
	createCategoryErr    error
	updateCategoryErr    error

	blockTransactions chan struct{}

	calls map[string]int
}

func newFakeService() *fakeService {
	return &fakeService{
		transactions: make(map[model.LedgerKind][]model.Transaction),
		calls:        make(map[string]int),
	}
}

func (f *fakeService) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeService) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeService) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeService) Transactions(_ context.Context, kind model.LedgerKind) ([]model.Transaction, error) {
	f.record("transactions")
	if f.blockTransactions != nil {
		<-f.blockTransactions
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transactionsErr != nil {
		return nil, f.transactionsErr
	}
	out := make([]model.Transaction, len(f.transactions[kind]))
	copy(out, f.transactions[kind])
	return out, nil
}

func (f *fakeService) CreateTransaction(_ context.Context, kind model.LedgerKind, payload model.NewTransaction) (*model.Transaction, error) {
	f.record("createTransaction")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createTransactionErr != nil {
		return nil, f.createTransactionErr
	}
	f.nextID++
	created := model.Transaction{
		ID:         fmt.Sprintf("tx%d", f.nextID),
		Name:       payload.Name,
		CategoryID: payload.CategoryID,
		Amount:     payload.Amount,
		Date:       payload.Date,
		Icon:       payload.Icon,
	}
	f.transactions[kind] = append(f.transactions[kind], created)
	return &created, nil
}

func (f *fakeService) DeleteTransaction(_ context.Context, kind model.LedgerKind, id string) error {
	f.record("deleteTransaction")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteTransactionErr != nil {
		return f.deleteTransactionErr
	}
	kept := f.transactions[kind][:0]
	for _, tx := range f.transactions[kind] {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	f.transactions[kind] = kept
	return nil
}

func (f *fakeService) Categories(context.Context) ([]model.Category, error) {
	f.record("categories")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	out := make([]model.Category, len(f.categories))
	copy(out, f.categories)
	return out, nil
}

func (f *fakeService) CategoriesByType(_ context.Context, categoryType model.CategoryType) ([]model.Category, error) {
	f.record("categoriesByType")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	var out []model.Category
	for _, cat := range f.categories {
		if cat.Type == categoryType {
			out = append(out, cat)
		}
	}
	return out, nil
}

func (f *fakeService) CreateCategory(_ context.Context, payload model.NewCategory) (*model.Category, error) {
	f.record("createCategory")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createCategoryErr != nil {
		return nil, f.createCategoryErr
	}
	f.nextID++
	created := model.Category{
		ID:   fmt.Sprintf("c%d", f.nextID),
		Name: payload.Name,
		Type: payload.Type,
		Icon: payload.Icon,
	}
	f.categories = append(f.categories, created)
	return &created, nil
}

func (f *fakeService) UpdateCategory(_ context.Context, id string, payload model.NewCategory) error {
	f.record("updateCategory")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateCategoryErr != nil {
		return f.updateCategoryErr
	}
	for i, cat := range f.categories {
		if cat.ID == id {
			f.categories[i] = model.Category{ID: id, Name: payload.Name, Type: payload.Type, Icon: payload.Icon}
			return nil
		}
	}
	return fmt.Errorf("category %s not found", id)
}

// recordingNotifier captures everything surfaced to the user.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) lastError() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.errors) == 0 {
		return ""
	}
	return n.errors[len(n.errors)-1]
}

// recordingSnapshots counts write-throughs from successful loads.
type recordingSnapshots struct {
	mu               sync.Mutex
	transactionSaves int
	categorySaves    int
}

func (s *recordingSnapshots) SaveTransactions(context.Context, model.LedgerKind, []model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactionSaves++
	return nil
}

func (s *recordingSnapshots) SaveCategories(context.Context, []model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categorySaves++
	return nil
}
