package model

type UserType string

const (
	UserTypeAdmin  UserType = "ADMIN"
	UserTypeMember UserType = "MEMBER"
	UserTypeGuest  UserType = "GUEST"
)

type MembershipTier string

const (
	TierBronze   MembershipTier = "BRONZE"
	TierSilver   MembershipTier = "SILVER"
	TierGold     MembershipTier = "GOLD"
	TierPlatinum MembershipTier = "PLATINUM"
)

var MembershipTiers = []MembershipTier{TierBronze, TierSilver, TierGold, TierPlatinum}

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

var OrderStatuses = []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}

// IsTerminal reports whether an order in this status carries completed_at.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

type AuditAction string

const (
	ActionCreate AuditAction = "CREATE"
	ActionUpdate AuditAction = "UPDATE"
	ActionDelete AuditAction = "DELETE"
	ActionView   AuditAction = "VIEW"
	ActionLogin  AuditAction = "LOGIN"
	ActionLogout AuditAction = "LOGOUT"
)

var AuditActions = []AuditAction{ActionCreate, ActionUpdate, ActionDelete, ActionView, ActionLogin, ActionLogout}

// HasOldValue reports whether entries with this action record the prior state.
func (a AuditAction) HasOldValue() bool {
	return a == ActionUpdate || a == ActionDelete
}

// HasNewValue reports whether entries with this action record the new state.
func (a AuditAction) HasNewValue() bool {
	return a == ActionCreate || a == ActionUpdate
}

type EntityType string

const (
	EntityUser    EntityType = "USER"
	EntityProduct EntityType = "PRODUCT"
	EntityOrder   EntityType = "ORDER"
)
