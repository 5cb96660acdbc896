package constants

// 结账流程状态常量
const (
	CheckoutStateIdle       = "idle"
	CheckoutStateFormEntry  = "form_entry"
	CheckoutStateConfirming = "confirming"
	CheckoutStatePlaced     = "placed"
)

// 支付方式常量（封闭集合，无默认值）
const (
	PaymentMethodCreditCard   = "credit_card"
	PaymentMethodPaypal       = "paypal"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCOD          = "cod"
)

// 收货信息字段名常量（校验时按序报告首个缺失字段）
const (
	ShippingFieldName        = "name"
	ShippingFieldPhoneNumber = "phone_number"
	ShippingFieldRegion      = "region"
	ShippingFieldProvince    = "province"
	ShippingFieldCity        = "city"
	ShippingFieldBarangay    = "barangay"
	ShippingFieldStreet      = "street"
)

// 购物车持久化存储键（所有写入整体覆盖该键）
const CartStorageKey = "cart"

// 存储后端常量
const (
	StorageBackendDatabase = "database"
	StorageBackendRedis    = "redis"
)
