/*
Package maturity automates the production of personalised
marketing maturity presentations from survey responses stored as a Google
Sheets worksheet.

maturity-assessment can be used from the command line but is really intended
to be run from a cron job so that a deck is generated for each new survey
respondent without manual intervention.

maturity-assessment supports the following commands:

  - authorise, to authorise application access to the survey responses worksheet
  - get, to download the survey responses as a TSV file
  - generate, to calculate category scores, generate AI recommendations and render a personalised deck per respondent
  - report, to write the calculated category scores back to a 'Scores' worksheet
  - upload, to store previously generated decks in a SharePoint document library
  - version, to display the current version
*/
package maturity
