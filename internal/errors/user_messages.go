package errors

// User-facing messages. The product is served in Traditional Chinese.
const (
	MsgMissingAddress     = "地址參數為必填項"
	MsgInvalidAddress     = "無法辨識地址的區域資訊"
	MsgNoMatchingRecords  = "找不到符合的不動產資料"
	MsgValuationFailed    = "查詢不動產資料時發生錯誤"
	MsgServiceUnavailable = "服務暫時無法使用，請稍後再試"
	MsgRateLimited        = "請求過於頻繁，請稍後再試"
	MsgInvalidParameters  = "參數格式錯誤，請確認後再試"
	MsgUnauthorized       = "請先連接錢包"
	MsgForbidden          = "沒有執行此操作的權限"
	MsgSessionNotFound    = "工作階段已過期，請重新連接錢包"
	MsgInvalidStage       = "請先完成前一個步驟"
	MsgKYCSkipNotAllowed  = "目前不允許跳過身份驗證"
	MsgKYCNotFound        = "找不到此 KYC 申請"
	MsgKYCAlreadyReviewed = "此 KYC 申請已審核"
	MsgAssetNotFound      = "找不到此資產"
	MsgMintRejected       = "使用者取消了交易"
	MsgInsufficientFunds  = "餘額不足，請確保有足夠的 Gas 費用"
	MsgMintFailed         = "鑄造失敗，請稍後再試"
	MsgStorageUnavailable = "上傳到 IPFS 失敗，請稍後再試"
	MsgLoanExceedsLTV     = "借款金額超過可貸上限"
	MsgLoanInvalidTerm    = "不支援的借款期限"
	MsgLoanInvalidAmount  = "借款金額必須大於零"
	MsgInternalError      = "伺服器錯誤，請稍後再試"
	MsgInvalidWallet      = "錢包地址格式錯誤"
	MsgKYCMissingFields   = "請填寫所有必填欄位"
	MsgKYCInvalidBirth    = "出生日期格式錯誤，請使用 YYYY-MM-DD"
	MsgKYCMissingFiles    = "請上傳身份證件和自拍照"
	MsgKYCFileTooLarge    = "文件大小不能超過 10MB"
	MsgKYCFileType        = "只支援 JPG、JPEG、PNG 格式"
	MsgKYCSubmitted       = "您的 KYC 申請已提交，通常需要 1-2 個工作天審核"
	MsgSelfMissingParams  = "缺少必要參數"
	MsgSelfVerifyFailed   = "身份驗證失敗"
	MsgSelfVerified       = "身份驗證成功"
	MsgSelfServerError    = "伺服器錯誤"

	MsgOperationInProgress = "此操作正在處理中，請勿重複送出"
)

// Suggestions returned alongside 4xx outcomes.
const (
	SuggestAddressFormat = "請確認地址格式，例如：新北市新莊區福壽街123號"
	SuggestNoRecords     = "請確認地址是否位於新北市，並嘗試使用更完整的地址格式"
)
