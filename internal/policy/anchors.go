package policy

// Anchor codes cited by the decision engine. Citing through these constants
// keeps the engine's vocabulary closed: Required() feeds the startup
// validation, so a citation can never dangle.
const (
	AnchorSnadDefinition     = "DEF-101"
	AnchorNegotiateFirst     = "ROL-202"
	AnchorProtectedChannel   = "ELI-301"
	AnchorDisputeWindow      = "ELI-302"
	AnchorOrderNotComplete   = "ELI-303"
	AnchorOutOfScope         = "ELI-304"
	AnchorSellerTimeout      = "PRC-403"
	AnchorBuyerTimeout       = "PRC-405"
	AnchorEscalationHandling = "PRC-406"
	AnchorSnadCriterion      = "SND-501"
	AnchorNotSnad            = "SND-502"
	AnchorInsufficientEvid   = "SND-503"
	AnchorFullRefundProposal = "SUG-601"
	AnchorPartialProposal    = "SUG-602"
	AnchorEvidenceListing    = "EVD-701"
	AnchorEvidenceUnboxing   = "EVD-702"
	AnchorEvidenceChat       = "EVD-703"
	AnchorEvidenceLogistics  = "EVD-704"
	AnchorOutcomeFullRefund  = "OUT-801"
	AnchorOutcomePartial     = "OUT-802"
	AnchorOutcomeNotAdmitted = "OUT-803"
	AnchorFeeSellerPays      = "FEE-A"
	AnchorFeeBuyerPays       = "FEE-B"
	AnchorFeeShared          = "FEE-C"
	AnchorOffPlatformBan     = "BAN-1001"
	AnchorFraudBan           = "BAN-1002"
	AnchorChecklistGuidance  = "COP-1104"
	AnchorSummaryGuidance    = "COP-1105"
)

// Required lists every anchor the engine may cite.
func Required() []string {
	return []string{
		AnchorSnadDefinition,
		AnchorNegotiateFirst,
		AnchorProtectedChannel,
		AnchorDisputeWindow,
		AnchorOrderNotComplete,
		AnchorOutOfScope,
		AnchorSellerTimeout,
		AnchorBuyerTimeout,
		AnchorEscalationHandling,
		AnchorSnadCriterion,
		AnchorNotSnad,
		AnchorInsufficientEvid,
		AnchorFullRefundProposal,
		AnchorPartialProposal,
		AnchorEvidenceListing,
		AnchorEvidenceUnboxing,
		AnchorEvidenceChat,
		AnchorEvidenceLogistics,
		AnchorOutcomeFullRefund,
		AnchorOutcomePartial,
		AnchorOutcomeNotAdmitted,
		AnchorFeeSellerPays,
		AnchorFeeBuyerPays,
		AnchorFeeShared,
		AnchorOffPlatformBan,
		AnchorFraudBan,
		AnchorChecklistGuidance,
		AnchorSummaryGuidance,
	}
}
