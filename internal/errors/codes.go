package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 이메일/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 토큰 폐기됨
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // 이메일 중복

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"  // 작업 권한 없음
	AuthzNotYourTurn  = "AUTHZ_NOT_YOUR_TURN"  // 현재 승인 차례가 아님
	AuthzCreatorOnly  = "AUTHZ_CREATOR_ONLY"   // 작성자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // 잘못된 ID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // 잘못된 형식
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // 범위 초과
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"       // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"  // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"        // 충돌

	// ==================== 인보이스 (INVOICE_) ====================
	InvoiceNotFound        = "INVOICE_NOT_FOUND"         // 인보이스 없음
	InvoiceNumberExists    = "INVOICE_NUMBER_EXISTS"     // 인보이스 번호 중복
	InvoiceInvalidType     = "INVOICE_INVALID_TYPE"      // 잘못된 인보이스 유형
	InvoiceNoApprovers     = "INVOICE_NO_APPROVERS"      // 승인자 없음
	InvoiceSharesIncomplete = "INVOICE_SHARES_INCOMPLETE" // 수수료 배분 미완성
	InvoiceAlreadyApproved = "INVOICE_ALREADY_APPROVED"  // 승인 완료된 인보이스
	InvoiceVersionConflict = "INVOICE_VERSION_CONFLICT"  // 동시 수정 충돌
	InvoiceAttachmentFlag  = "INVOICE_ATTACHMENT_FLAG"   // 필수 첨부 표시 누락

	// ==================== 승인 (APPROVAL_) ====================
	ApprovalNotPending   = "APPROVAL_NOT_PENDING"   // 대기 상태가 아님
	ApprovalOutOfTurn    = "APPROVAL_OUT_OF_TURN"   // 승인 순서 아님
	ApprovalTerminal     = "APPROVAL_TERMINAL"      // 이미 종결된 인보이스
	ApprovalCommentEmpty = "APPROVAL_COMMENT_EMPTY" // 반려 사유 누락

	// ==================== Plus One (PLUSONE_) ====================
	PlusOneShareInvalid     = "PLUSONE_SHARE_INVALID"      // 수혜자 지분 오류
	PlusOneShareSumMismatch = "PLUSONE_SHARE_SUM_MISMATCH" // 지분 합계 100 아님
	PlusOneNotEligible      = "PLUSONE_NOT_ELIGIBLE"       // 보상 대상 아님

	// ==================== SOC (SOC_) ====================
	SocRequestNotFound = "SOC_REQUEST_NOT_FOUND" // SOC 요청 없음
	SocRequestTerminal = "SOC_REQUEST_TERMINAL"  // 이미 처리된 SOC 요청
	SocReasonEmpty     = "SOC_REASON_EMPTY"      // 반려 사유 누락
	SocCompanyNotFound = "SOC_COMPANY_NOT_FOUND" // 조회 대상 회사 없음

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // 파일 너무 큼
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // 설정 오류
)
