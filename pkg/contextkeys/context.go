package contextkeys

// Custom type so the key cannot collide with other packages' context values.
type contextKey string

// DBContextKey is the key under which the *gorm.DB handle is stored.
const DBContextKey = contextKey("db")
