package database

// Menu queries
const (
	GetAvailableMenuItemsSQL = `
		SELECT id, name, description, price, category, available
		FROM menu_items
		WHERE available = TRUE
		ORDER BY id ASC`
)

// User queries
const (
	UpsertUserSQL = `
		INSERT INTO users (phone_number)
		VALUES ($1)
		ON CONFLICT (phone_number) DO UPDATE SET last_interaction = NOW()
		RETURNING id, phone_number, first_interaction, last_interaction, order_count, total_spent`

	CountUsersSQL = `
		SELECT COUNT(*) FROM users`

	BumpUserStatsSQL = `
		UPDATE users
		SET order_count = order_count + 1,
			total_spent = total_spent + $1,
			last_interaction = NOW()
		WHERE phone_number = $2`
)

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (user_phone, total_amount, delivery_address, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, created_at`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, menu_item_id, name, quantity, price)
		VALUES ($1, $2, $3, $4, $5)`

	UpsertOrderFrequencySQL = `
		INSERT INTO order_frequency (user_phone, menu_item_id, frequency, last_ordered)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_phone, menu_item_id) DO UPDATE SET
			frequency = order_frequency.frequency + $3,
			last_ordered = NOW()`

	CountOrdersSQL = `
		SELECT COUNT(*) FROM orders`

	ListOrdersSQL = `
		SELECT o.id, o.user_phone, o.total_amount, o.delivery_address, o.status, o.created_at,
			   u.order_count, u.total_spent
		FROM orders o
		JOIN users u ON o.user_phone = u.phone_number
		ORDER BY o.created_at DESC`

	GetOrderSQL = `
		SELECT id, user_phone, total_amount, delivery_address, status, created_at
		FROM orders WHERE id = $1`

	GetOrderItemsSQL = `
		SELECT menu_item_id, name, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY menu_item_id ASC`

	GetPopularItemsSQL = `
		SELECT m.name, SUM(f.frequency) AS total_ordered
		FROM order_frequency f
		JOIN menu_items m ON f.menu_item_id = m.id
		GROUP BY m.id, m.name
		ORDER BY total_ordered DESC
		LIMIT $1`

	GetRevenueSQL = `
		SELECT COALESCE(SUM(total_amount), 0) FROM orders`
)
