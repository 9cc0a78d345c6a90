package checkout

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Caja-pos-api/internal/domain/entity"
)

// Session una sesión de caja: el carrito, su estado y los términos congelados
// al iniciar el checkout. Un solo dueño lógico (el cajero activo) muta la
// sesión; el peligro real es entre sesiones sobre el stock compartido, y eso
// se resuelve en la frontera de commit, no aquí.
type Session struct {
	ID        string
	SellerID  string
	State     string
	Cart      *entity.Cart
	Terms     entity.CheckoutTerms // cero hasta StartCheckout
	CreatedAt time.Time
	UpdatedAt time.Time
}

// newSession crea una sesión en BROWSING con carrito vacío.
func newSession(sellerID string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		SellerID:  sellerID,
		State:     entity.StateBrowsing,
		Cart:      entity.NewCart(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// canMutateCart indica si el estado actual admite mutaciones del carrito.
// ABORTED admite corrección (vuelve a CHECKOUT al mutar); COMMITTED no.
func (s *Session) canMutateCart() bool {
	switch s.State {
	case entity.StateBrowsing, entity.StateCart, entity.StateCheckout, entity.StateAborted:
		return true
	}
	return false
}

// touch marca la sesión como mutada y resuelve las transiciones implícitas:
// primera línea BROWSING->CART, y la corrección tras un aborto
// ABORTED->CHECKOUT (el aborto no es terminal).
func (s *Session) touch() {
	s.UpdatedAt = time.Now()
	if s.State == entity.StateBrowsing && len(s.Cart.Lines) > 0 {
		s.State = entity.StateCart
	}
	if s.State == entity.StateAborted {
		s.State = entity.StateCheckout
	}
}

// Store almacén en memoria de sesiones de caja. Los carritos son estado
// transitorio de un solo escritor; mueren en el commit o el reset.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore crea el almacén.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registra una sesión nueva para el vendedor.
func (st *Store) Create(sellerID string) *Session {
	s := newSession(sellerID)
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get devuelve la sesión o nil si no existe.
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

// Delete elimina la sesión.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}
