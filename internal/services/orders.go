package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gocql/gocql"

	"foodstore_back_end/internal/models"
)

// ProductStore expose les accès produits dont le service de commandes a
// besoin. DecrementStock doit être atomique par produit : la vérification de
// stock et la décrémentation forment une seule opération conditionnelle côté
// stockage (voir store.ScyllaProductStore pour l'implémentation LWT).
type ProductStore interface {
	GetByID(ctx context.Context, id gocql.UUID) (*models.Product, error)
	// DecrementStock retire qty du stock seulement si le stock courant est
	// suffisant. Retourne *InsufficientStockError sinon, sans rien modifier.
	DecrementStock(ctx context.Context, id gocql.UUID, qty int) (remaining int, err error)
	// AddStock restitue du stock (compensation quand l'écriture de la
	// commande échoue après décrément).
	AddStock(ctx context.Context, id gocql.UUID, qty int) error
}

type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id gocql.UUID) (*models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	ListByProduct(ctx context.Context, productID gocql.UUID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id gocql.UUID, status models.OrderStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id gocql.UUID) error
}

type UserStore interface {
	DisplayName(ctx context.Context, id gocql.UUID) (string, error)
}

// OrderService orchestre le placement de commande (vérification de stock,
// prix figé, décrément, écriture) et les transitions de statut.
type OrderService struct {
	Products ProductStore
	Orders   OrderStore
	Users    UserStore

	// Policy décide des transitions de statut autorisées. Nil = politique
	// permissive (tout statut valide vers tout statut valide).
	Policy models.TransitionPolicy

	// Timeout borne chaque opération ; au-delà l'opération est considérée en
	// échec, jamais relancée automatiquement.
	Timeout time.Duration
}

const defaultTimeout = 10 * time.Second

func (s *OrderService) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return defaultTimeout
}

func (s *OrderService) policy() models.TransitionPolicy {
	if s.Policy != nil {
		return s.Policy
	}
	return models.PermissiveTransitions{}
}

// PlaceOrder crée une commande pour userID sur productID.
//
// Validations, dans l'ordre : quantité ≥ 1, utilisateur résolu, produit
// existant, stock suffisant. Le prix total est figé à partir du prix lu ici ;
// les changements de prix ultérieurs ne retouchent jamais les commandes
// existantes. Le décrément de stock est conditionnel et atomique par produit,
// donc deux commandes concurrentes ne peuvent pas survendre.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, productID gocql.UUID, quantity int, note string) (*models.Order, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if userID == (gocql.UUID{}) {
		return nil, ErrMissingUser
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	product, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Stock < quantity {
		return nil, &InsufficientStockError{Available: product.Stock}
	}

	// Prix figé au moment de cette lecture.
	totalPrice := float64(quantity) * product.Price

	if _, err := s.Products.DecrementStock(ctx, productID, quantity); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:         gocql.TimeUUID(),
		UserID:     userID,
		ProductID:  productID,
		Quantity:   quantity,
		TotalPrice: totalPrice,
		Status:     models.StatusPending,
		Note:       note,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Orders.Insert(ctx, order); err != nil {
		// La commande n'a pas pu être écrite : on restitue le stock déjà
		// décrémenté, sur un contexte neuf car le nôtre peut être expiré.
		rbCtx, rbCancel := context.WithTimeout(context.Background(), s.timeout())
		defer rbCancel()
		if rbErr := s.Products.AddStock(rbCtx, productID, quantity); rbErr != nil {
			log.Printf("❌ Rollback stock échoué pour produit %s (+%d): %v", productID, quantity, rbErr)
		}
		return nil, err
	}

	return order, nil
}

// SetStatus fait passer une commande existante au statut demandé. Seul le
// statut (et updated_at) change ; tous les autres champs sont immuables ici.
func (s *OrderService) SetStatus(ctx context.Context, orderID gocql.UUID, newStatus models.OrderStatus) (*models.Order, error) {
	if !newStatus.Valid() {
		return nil, &InvalidStatusError{Status: string(newStatus)}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !s.policy().CanTransition(order.Status, newStatus) {
		return nil, &TransitionError{From: order.Status, To: newStatus}
	}

	now := time.Now().UTC()
	if err := s.Orders.UpdateStatus(ctx, orderID, newStatus, now); err != nil {
		return nil, err
	}

	order.Status = newStatus
	order.UpdatedAt = now
	return order, nil
}

// DeleteOrder supprime une commande. Le stock n'est volontairement pas
// restitué (comportement historique, voir DESIGN.md).
func (s *OrderService) DeleteOrder(ctx context.Context, orderID gocql.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	if _, err := s.Orders.GetByID(ctx, orderID); err != nil {
		return err
	}
	return s.Orders.Delete(ctx, orderID)
}

// GetOrder retourne une commande enrichie des infos produit/utilisateur.
func (s *OrderService) GetOrder(ctx context.Context, orderID gocql.UUID) (*models.OrderDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	details := s.enrich(ctx, *order)
	return &details, nil
}

// ListOrders retourne toutes les commandes, enrichies.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.OrderDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	orders, err := s.Orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, orders), nil
}

// ListProductOrders retourne les commandes d'un produit. Le produit doit
// exister, même si aucune commande ne le référence.
func (s *OrderService) ListProductOrders(ctx context.Context, productID gocql.UUID) ([]models.OrderDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	if _, err := s.Products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	orders, err := s.Orders.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.enrichAll(ctx, orders), nil
}

// enrich suit les références produit/utilisateur au moment de la lecture
// (jointure à la volée : les modifications du catalogue sont reflétées
// immédiatement, les références orphelines laissent simplement les champs
// vides).
func (s *OrderService) enrich(ctx context.Context, order models.Order) models.OrderDetails {
	details := models.OrderDetails{Order: order}

	if product, err := s.Products.GetByID(ctx, order.ProductID); err == nil {
		details.ProductName = product.Name
		details.ProductPrice = product.Price
	} else if !errors.Is(err, ErrProductNotFound) {
		log.Printf("⚠️ Enrichissement produit %s impossible: %v", order.ProductID, err)
	}

	if s.Users != nil {
		if name, err := s.Users.DisplayName(ctx, order.UserID); err == nil {
			details.Username = name
		}
	}

	return details
}

func (s *OrderService) enrichAll(ctx context.Context, orders []models.Order) []models.OrderDetails {
	details := make([]models.OrderDetails, 0, len(orders))
	for _, o := range orders {
		details = append(details, s.enrich(ctx, o))
	}
	return details
}
