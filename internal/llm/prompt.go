package llm

import "strings"

// Prompt construction is pure templating: (stage, serialized input) -> text.
// The prompts are authored in French for the French utility-billing market;
// the JSON key contract they pin down is what the rest of the system parses.

const extractionSystemPrompt = "You are an AI assistant that extracts structured data from energy invoices. " +
	"You return just a valid json, do not put ```json at the start or end of the response, just the json."

const analysisSystemPrompt = "You are an AI assistant that analyzes energy invoices for issues. " +
	"You return just a valid json, do not put ```json at the start or end of the response, just the json."

const recommendationSystemPrompt = "You are an AI assistant that provides energy optimization recommendations."

// ExtractionSystemPrompt returns the system message for the extraction stage.
func ExtractionSystemPrompt() string { return extractionSystemPrompt }

// AnalysisSystemPrompt returns the system message for the analysis stage.
func AnalysisSystemPrompt() string { return analysisSystemPrompt }

// RecommendationSystemPrompt returns the system message for the recommendation stage.
func RecommendationSystemPrompt() string { return recommendationSystemPrompt }

// BuildExtractionPrompt asks for exactly the 14-field invoice contract, with
// null (never omission) for any field the model cannot determine.
func BuildExtractionPrompt(ocrText string) string {
	var b strings.Builder
	b.WriteString(`Vous êtes un assistant IA spécialisé dans l'extraction d'informations à partir de factures d'énergie.
Le texte de la facture fourni est en français.
Extrayez les informations suivantes de ce texte de facture d'énergie :

1.  Nom du fournisseur : identifiez le nom de l'entreprise de services publics (par exemple, "LYDEC").
2.  Numéro de facture : recherchez "N° FACTURE" ou "Détail de votre facture N°" suivi d'un numéro.
3.  Date d'émission : trouvez "Date de l'édition" et formatez-la au format AAAA-MM-JJ.
4.  Date d'échéance : si elle est explicitement indiquée (par exemple, "Date limite de paiement"), formatez-la au format AAAA-MM-JJ. Si non trouvée, retournez null.
5.  Nom du client : si disponible, extrayez le nom complet du client. Si non trouvé, retournez null.
6.  ID client : si disponible, extrayez le numéro d'identification du client. Si non trouvé, retournez null.
7.  Montant total : trouvez le "Montant TTC" ou "Total général" (toutes taxes comprises).
8.  Période de consommation : dates de début et de fin, généralement les dates "Ancien Index" (début) et "Nouvel Index" (fin) sous "Détail de votre consommation". Format AAAA-MM-JJ.
9.  Total kWh consommés : recherchez "Total énergie Active" ou la somme des catégories de consommation ("Heures Normales", "Heures Creuses", "Heures de Pointe").
10. Tarif par kWh : si un tarif global unique n'est pas disponible, retournez null ; les tarifs individuels figurent dans les postes.
11. kWh Pointe : consommation des "Heures de Pointe". Si absente mais que "Heures Normales" est présente, considérez "Heures Normales" comme la pointe.
12. kWh Creuses : consommation des "Heures Creuses".
13. Postes détaillés : extrayez les lignes du tableau principal de consommation/services. Pour chaque poste : description, quantity, unit_price ("Prix Unitaire H.T."), total ("Montant H.T.").
14. Taxes : extrayez la section "Récapitulatif TVA" ; objet dont les clés sont les noms de taxes et les valeurs leurs montants.

Retournez les informations dans un format JSON structuré avec ces clés exactes :
provider, invoice_number, issue_date, due_date, customer_name, customer_id,
total_amount, period_start, period_end, total_kwh, rate_per_kwh, peak_kwh,
off_peak_kwh, items (tableau d'objets tel que décrit ci-dessus), taxes (objet).
Si un champ n'est pas trouvé, retournez null pour ce champ spécifique.

Voici le texte de la facture :
`)
	b.WriteString(ocrText)
	b.WriteString("\nretournez juste un json, sans texte, sans remarques, sans ```json, juste le json")
	return b.String()
}

// BuildAnalysisPrompt asks for the four anomaly patterns of the reference
// optimization guide, as {description, severity} findings.
func BuildAnalysisPrompt(invoiceJSON []byte) string {
	var b strings.Builder
	b.WriteString(`Vous êtes un assistant IA spécialisé dans l'analyse des factures d'énergie.
Analysez les données de cette facture d'énergie et identifiez toute anomalie ou problème potentiel :

`)
	b.Write(invoiceJSON)
	b.WriteString(`

Votre analyse doit spécifiquement rechercher les problèmes suivants :

1.  Facteur de puissance (cos φ) < 0.93 : y a-t-il des signes de "Pénalités sur la puissance réactive" ou des données suggérant un facteur de puissance faible ?
2.  Puissance appelée > 110 % de la puissance souscrite : des "Pénalités de dépassement" sont-elles appliquées ?
3.  Puissance souscrite trop élevée par rapport à la puissance réellement appelée : y a-t-il un surcoût mensuel inutile par rapport à l'historique de consommation ?
4.  Consommation concentrée durant les heures pleines (HP), entraînant un coût élevé de l'énergie ?

Retournez votre analyse dans un format JSON structuré avec ces clés :
issues (un tableau d'objets, où chaque objet décrit un problème identifié avec une clé description et une clé severity : "high", "medium" ou "low").

retournez juste un json, sans texte, sans remarques, sans ` + "```json" + `, juste le json, toute la réponse doit être en français`)
	return b.String()
}

// BuildRecommendationPrompt maps each anomaly category to its canned
// remediation action, plus savings estimate and efficiency score.
func BuildRecommendationPrompt(invoiceJSON, analysisJSON []byte) string {
	var b strings.Builder
	b.WriteString(`Vous êtes un assistant IA spécialisé dans la fourniture de recommandations d'optimisation énergétique.
En vous basant sur les données de cette facture d'énergie et l'analyse fournie, fournissez des recommandations pour optimiser l'utilisation de l'énergie et réduire les coûts.

Données de la facture :
`)
	b.Write(invoiceJSON)
	b.WriteString(`

Analyse :
`)
	b.Write(analysisJSON)
	b.WriteString(`

Pour chaque problème identifié dans l'analyse (issues), formulez une recommandation spécifique et actionnable selon la correspondance suivante :

*   Facteur de puissance (cos φ) < 0.93 ou pénalités sur la puissance réactive :
    recommandez l'installation de batteries de condensateurs, en expliquant que cela corrigera le facteur de puissance, réduira la puissance réactive et évitera les pénalités mensuelles (objectif : cos φ ≥ 0.93, idéalement 0.95-0.98).
*   Puissance appelée > 110 % de la puissance souscrite ou pénalités de dépassement :
    recommandez l'étalement des démarrages, une meilleure gestion des appels de charge et/ou des dispositifs de lissage (peak shaving) pour réduire les pics de puissance.
*   Puissance souscrite trop élevée par rapport à la puissance réellement appelée :
    recommandez d'analyser les historiques de charge pour ajuster la puissance souscrite au niveau optimal, légèrement au-dessus de la puissance maximale réellement consommée.
*   Consommation concentrée durant les heures pleines (HP) :
    recommandez de transférer la consommation des équipements non critiques vers les heures creuses ou normales, en programmant leur fonctionnement pendant ces périodes moins coûteuses.

Estimez également les économies potentielles (montant monétaire) si les recommandations sont suivies. Si les données ne permettent pas une estimation fiable, indiquez null.
Attribuez également un efficiency_score (évaluation de 0 à 100 de l'efficacité actuelle) en fonction de la présence et de la gravité des problèmes identifiés.

Retournez vos recommandations dans un format JSON structuré avec ces clés :
recommendations (tableau de chaînes de caractères), potential_savings (montant estimé ou null),
efficiency_score (évaluation de 0 à 100).

retournez juste un json, sans texte, sans remarques, sans ` + "```json" + `, juste le json, toute la réponse doit être en français`)
	return b.String()
}
