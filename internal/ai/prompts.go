package ai

import (
	"fmt"
	"strings"

	"github.com/obessu/eventflow/internal/model"
)

// orgContext is injected into every prompt so the model can judge relevance
// against the organisation's portfolios and strategic themes.
const orgContext = `
ORGANIZATIONAL STRUCTURE & PORTFOLIOS (2026):

BOARD MEMBERS:
- Alessandro Di Miceli: Vocational Education & Training (VET), Apprenticeships, Quality Internships.
- Elodie Böhling: Democracy, Student Rights, Civic Space, Participation.
- Ívar Máni Hrannarsson: Social Affairs, Mental Health, Inclusion, Student Well-being.
- Kacper Bogalecki: Organisational Development, Capacity Building, Internal Governance.
- Lauren Bond: Education Policy, EU Advocacy, Research.

SECRETARIAT:
- Rui Teixeira (Secretary General): External Representation, High-level Management.
- Raquel Moreno Beneit (Comms): Digital Presence, Campaigns.
- Panagiotis Chatzimichail (Head of External Affairs): Partnerships, LLLP, Erasmus+.
- Amira Bakr (Policy Assistant): Policy Monitoring, Outreach.
- Francesca Osima (Head of Projects): Operations, Grant Management.
- Daniele Sabato (Coordinator): VET Strategy, Policy Implementation.

STRATEGIC THEMES 2026:
1. VET & Apprenticeships (Quality, Rights, Pay).
2. Inclusive Schools & Mental Health.
3. Digital Rights in Education (AI, Data Privacy).
4. Democratic School Governance.
5. Climate Justice in Education.
`

// analysisSystemInstruction steers the extraction call.
const analysisSystemInstruction = `
You are a senior IT & Operations Specialist for OBESSU (Organising Bureau of European School Student Unions).
Your task is to analyze event invitations received via email or documents and structure the information for the secretariat.

DATA INTEGRATION:
Use the following organizational context to determine relevance, assign priorities, and suggest appropriate representatives:
` + orgContext + `

Extraction Rules:
1. Identify Email Metadata: Extract the Subject, Sender Name, and Sender Email if visible in the headers.
2. Thematic Analysis: Map the event to OBESSU's strategic goals defined in the context above.
3. Role Mapping: Suggest the most relevant Board Member or Staff based on the portfolios listed above.
4. Prioritization Scoring (0-100):
   - 90-100: Critical strategic match (e.g., EU Commission VET consultation for Alessandro/Daniele).
   - 70-89: High relevance to specific portfolios (e.g., Mental Health event for Ívar).
   - 50-69: General networking or partnership interest.
   - <50: Low priority or irrelevant.

Output Requirements:
- Provide a concise summary (description).
- Extract URLs for registration and agendas.
- Suggest internal OBESSU documents or past positions relevant to the topic.
`

const analyzeFilePrompt = "Analyze this document as an event invitation. If it's an email, extract headers."

const summarizePrompt = "Summarize this document focusing on key outcomes, decisions, and follow-up actions. Keep it professional."

func analyzeTextPrompt(text string) string {
	return "Analyze the following invitation (check for email headers):\n\n" + text
}

func briefingPrompt(ev *model.Event) string {
	return fmt.Sprintf(`Create a 1-page executive briefing for a representative attending the following event:
  Event: %s
  Institution: %s
  Theme: %s
  Context: %s
  Linked Activities: %s

  CONTEXT:
  %s

  Include:
  1. Key Objectives for OBESSU
  2. Potential 'Red Lines' (What to avoid)
  3. Key Stakeholders likely present
  4. Suggested opening statement points.`,
		ev.Analysis.EventName,
		ev.Analysis.Institution,
		ev.Analysis.Theme,
		ev.Analysis.Description,
		strings.Join(ev.Analysis.LinkedActivities, ", "),
		orgContext)
}
