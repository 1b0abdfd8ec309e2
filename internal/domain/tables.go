package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	// Marketplace
	&User{},
	&CartItem{},
	&Product{},
	&Bid{},
	&Order{},
	&OrderItem{},
	&Tool{},
	&NotificationLog{},
}
